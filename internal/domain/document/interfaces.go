package document

import (
	"context"

	"github.com/rpggio/pantry/internal/domain/activity"
)

// Store persists encoded document snapshots.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// ActivityLogger records user intents.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
