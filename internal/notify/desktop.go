package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// Desktop delivers alerts as native desktop notifications.
type Desktop struct{}

func (Desktop) Notify(ctx context.Context, title, body string) error {
	if err := beeep.Notify(title, body, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
