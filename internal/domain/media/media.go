package media

import (
	"context"
	"time"
)

const DefaultModuleRef = "general"

// Asset is a catalog row pointing at an object store key. It is never updated,
// only created after a successful store write and removed after the object is gone.
type Asset struct {
	ID          int64
	FileName    string
	StorageKey  string
	ContentType string
	ModuleRef   string
	UploadedBy  int64
	CreatedAt   time.Time
}

func (a *Asset) OwnedBy(userID int64) bool {
	return a.UploadedBy == userID
}

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	FindByID(ctx context.Context, id int64) (*Asset, error)
	// List returns every asset newest first; moduleRef filters when non-empty.
	List(ctx context.Context, moduleRef string) ([]*Asset, error)
	Delete(ctx context.Context, id int64) error
}
