package menu

import (
	"context"
	"errors"

	"github.com/sahanw/restopos/internal/model"
)

var ErrNotFound = errors.New("menu item not found")

type Repository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	FindAll(ctx context.Context, includeDisabled bool) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	Update(ctx context.Context, item *model.MenuItem) error

	// SetAvailability is the soft-delete path; Delete removes the row.
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}
