package commands

import (
	"context"
	"fmt"

	"github.com/ardanlabs/notechain/business/sys/relay"
)

// Events prints every event relayed by the node until the context is done.
func Events(ctx context.Context, rly *relay.Relay) error {
	sub := rly.Subscribe(ctx)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Println(msg.Payload)

		case <-ctx.Done():
			return nil
		}
	}
}
