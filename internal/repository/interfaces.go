package repository

import (
	"context"

	"github.com/rpggio/pantry/internal/domain/activity"
)

// DocumentRepository stores the encoded pantry document as a single snapshot.
// Read returns ErrNotFound when nothing has been written yet. Write replaces the
// previous snapshot entirely or not at all.
type DocumentRepository interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// ActivityRepository manages activity feed persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
