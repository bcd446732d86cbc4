package menu

import (
	"context"

	"github.com/sahanw/restopos/internal/menu/dto"
	"github.com/sahanw/restopos/internal/model"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateMenuItemInput) (*model.MenuItem, error)
	GetAll(ctx context.Context, includeDisabled bool) ([]model.MenuItem, error)
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)
	Update(ctx context.Context, input *dto.UpdateMenuItemInput) (*model.MenuItem, error)
	SetAvailability(ctx context.Context, id string, available bool) error

	// Delete removes the item permanently. Disabling is the reversible path
	// and keeps the item on historical order snapshots intact.
	Delete(ctx context.Context, id string) error
}
