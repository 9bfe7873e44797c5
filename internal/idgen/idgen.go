// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// prefixes maps collection names to their ID prefix.
var prefixes = map[string]string{
	"products": "prd-",
	"shops":    "shp-",
	"auctions": "auc-",
	"orders":   "ord-",
	"reviews":  "rev-",
	"coupons":  "cpn-",
	"users":    "usr-",
}

// Generate returns a new unique ID for the given collection. Collections
// without a registered prefix get "doc-".
func Generate(collection string) (string, error) {
	prefix, ok := prefixes[collection]
	if !ok {
		prefix = "doc-"
	}
	return GenerateWithPrefix(prefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
