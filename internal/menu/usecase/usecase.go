package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/bus"
	"github.com/sahanw/restopos/internal/menu"
	"github.com/sahanw/restopos/internal/menu/dto"
	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/store"
)

var (
	ErrNameRequired    = errors.New("menu item name is required")
	ErrInvalidPrice    = errors.New("menu item price must be positive")
	ErrInvalidCategory = errors.New("menu item category must be food or beverage")
)

type menuUseCase struct {
	repo     menu.Repository
	notifier store.Notifier
	bus      *bus.Bus
	logger   *zap.Logger
}

func NewMenuUseCase(repo menu.Repository, notifier store.Notifier, b *bus.Bus, log *zap.Logger) menu.UseCase {
	return &menuUseCase{
		repo:     repo,
		notifier: notifier,
		bus:      b,
		logger:   log,
	}
}

func (uc *menuUseCase) Create(ctx context.Context, input *dto.CreateMenuItemInput) (*model.MenuItem, error) {
	if err := validate(input.Name, input.Price, input.Category); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.MenuItem{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Category:    input.Category,
		Subcategory: menu.NormalizeSubcategory(input.Category, input.Subcategory),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	uc.publishChanged(ctx, item.ID)
	return item, nil
}

func (uc *menuUseCase) GetAll(ctx context.Context, includeDisabled bool) ([]model.MenuItem, error) {
	return uc.repo.FindAll(ctx, includeDisabled)
}

func (uc *menuUseCase) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *menuUseCase) Update(ctx context.Context, input *dto.UpdateMenuItemInput) (*model.MenuItem, error) {
	if err := validate(input.Name, input.Price, input.Category); err != nil {
		return nil, err
	}

	item, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Price = input.Price
	item.Category = input.Category
	item.Subcategory = menu.NormalizeSubcategory(input.Category, input.Subcategory)
	item.Description = input.Description
	item.ImageURL = input.ImageURL
	item.Available = input.Available
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}

	uc.publishChanged(ctx, item.ID)
	return item, nil
}

func (uc *menuUseCase) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := uc.repo.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	uc.publishChanged(ctx, id)
	return nil
}

func (uc *menuUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishChanged(ctx, id)
	return nil
}

// publishChanged fans a mutation out to other terminals (redis) and to
// same-process subscribers (bus). Notification failure is logged, never
// surfaced: the write already committed.
func (uc *menuUseCase) publishChanged(ctx context.Context, id string) {
	if err := uc.notifier.Publish(ctx, store.TableMenuItems); err != nil {
		uc.logger.Warn("menu change publish failed", zap.String("item", id), zap.Error(err))
	}
	uc.bus.Publish(bus.MenuItemsUpdated, id)
}

func validate(name string, price float64, cat model.Category) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	if cat != model.CategoryFood && cat != model.CategoryBeverage {
		return ErrInvalidCategory
	}
	return nil
}
