package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// Role names ordered by privilege. Unknown or missing roles rank as user.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

var roleRank = map[string]int{
	RoleAdmin:  3,
	RoleSeller: 2,
	RoleUser:   1,
}

// ValidatePermission checks that the calling user exists and holds at
// least the required role. Store errors are reported generically so the
// caller never leaks backend detail to the client.
func ValidatePermission(ctx context.Context, st store.Store, userID, requiredRole string) Validation {
	if userID == "" {
		return Validation{Valid: false, Error: "Authentication required"}
	}

	doc, err := st.Collection("users").Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Validation{Valid: false, Error: "User not found"}
	}
	if err != nil {
		return Validation{Valid: false, Error: "Permission validation failed"}
	}

	role, _ := doc.Data["role"].(string)
	if roleRank[role] == 0 {
		role = RoleUser
	}
	if roleRank[role] < roleRank[requiredRole] {
		return Validation{
			Valid: false,
			Error: fmt.Sprintf("Role %s required, current role is %s", requiredRole, role),
		}
	}
	return Validation{Valid: true}
}
