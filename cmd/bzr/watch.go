package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bazaarlabs/bazaar/internal/events"
)

var watchTopic string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream server events from NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := os.Getenv("BAZAAR_NATS_URL")
		if url == "" {
			return fmt.Errorf("BAZAAR_NATS_URL is not set")
		}

		sub, err := events.NewNATSSubscriber(url)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(watchTopic)
		if err != nil {
			return err
		}
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Printf("%s\t%s\n", msg.Topic, msg.Payload)
			case <-sigCh:
				return nil
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchTopic, "topic", events.TopicAll, "topic to watch (NATS wildcards allowed)")
}
