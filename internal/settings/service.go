// Package settings serves the per-terminal configuration keys (restaurant,
// receipt, system, notifications). Reads prefer the remote store and fall
// back to a local mirror; writes degrade to mirror-only when the remote is
// unreachable so the terminal keeps working offline.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/model"
)

type Service struct {
	repo      Repository
	mirrorDir string
	logger    *zap.Logger
}

func NewService(repo Repository, mirrorDir string, log *zap.Logger) *Service {
	return &Service{repo: repo, mirrorDir: mirrorDir, logger: log}
}

func (s *Service) Restaurant(ctx context.Context) model.RestaurantSettings {
	out := model.DefaultRestaurantSettings()
	s.get(ctx, model.SettingsKeyRestaurant, &out)
	return out
}

func (s *Service) SetRestaurant(ctx context.Context, v model.RestaurantSettings) error {
	return s.set(ctx, model.SettingsKeyRestaurant, v)
}

func (s *Service) Receipt(ctx context.Context) model.ReceiptSettings {
	var out model.ReceiptSettings
	s.get(ctx, model.SettingsKeyReceipt, &out)
	return out
}

func (s *Service) SetReceipt(ctx context.Context, v model.ReceiptSettings) error {
	return s.set(ctx, model.SettingsKeyReceipt, v)
}

func (s *Service) System(ctx context.Context) model.SystemSettings {
	var out model.SystemSettings
	s.get(ctx, model.SettingsKeySystem, &out)
	return out
}

func (s *Service) SetSystem(ctx context.Context, v model.SystemSettings) error {
	return s.set(ctx, model.SettingsKeySystem, v)
}

func (s *Service) Notifications(ctx context.Context) model.NotificationSettings {
	var out model.NotificationSettings
	s.get(ctx, model.SettingsKeyNotifications, &out)
	return out
}

func (s *Service) SetNotifications(ctx context.Context, v model.NotificationSettings) error {
	return s.set(ctx, model.SettingsKeyNotifications, v)
}

// All bundles every key for the settings screen.
type All struct {
	Restaurant    model.RestaurantSettings   `json:"restaurant"`
	Receipt       model.ReceiptSettings      `json:"receipt"`
	System        model.SystemSettings       `json:"system"`
	Notifications model.NotificationSettings `json:"notifications"`
}

func (s *Service) GetAll(ctx context.Context) All {
	return All{
		Restaurant:    s.Restaurant(ctx),
		Receipt:       s.Receipt(ctx),
		System:        s.System(ctx),
		Notifications: s.Notifications(ctx),
	}
}

// get decodes the remote value into out, falling back to the mirror when the
// remote read fails. A missing key anywhere leaves out untouched, so callers
// seed it with their defaults.
func (s *Service) get(ctx context.Context, key string, out any) {
	raw, err := s.repo.Get(ctx, key)
	if err == nil {
		if err := json.Unmarshal(raw, out); err != nil {
			s.logger.Error("corrupt remote settings value", zap.String("key", key), zap.Error(err))
		}
		return
	}
	if errors.Is(err, ErrNotFound) {
		return
	}

	s.logger.Warn("remote settings read failed, using local mirror",
		zap.String("key", key), zap.Error(err))

	raw, readErr := os.ReadFile(s.mirrorPath(key))
	if readErr != nil {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Error("corrupt settings mirror", zap.String("key", key), zap.Error(err))
	}
}

// set writes remote first, then refreshes the mirror. When the remote write
// fails the mirror is still updated and no error is returned: the change is
// live on this terminal and will reach the store on a later write.
func (s *Service) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings %s: %w", key, err)
	}

	remoteErr := s.repo.Set(ctx, key, raw)
	if remoteErr != nil {
		s.logger.Warn("remote settings write failed, keeping local mirror only",
			zap.String("key", key), zap.Error(remoteErr))
	}

	if err := s.writeMirror(key, raw); err != nil {
		if remoteErr != nil {
			return fmt.Errorf("settings %s unsaved: %w", key, err)
		}
		s.logger.Warn("settings mirror write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *Service) writeMirror(key string, raw json.RawMessage) error {
	if err := os.MkdirAll(s.mirrorDir, 0o755); err != nil {
		return err
	}
	path := s.mirrorPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Service) mirrorPath(key string) string {
	return filepath.Join(s.mirrorDir, key+".json")
}
