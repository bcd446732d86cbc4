// Package user authenticates terminal operators. Accounts live inside
// SystemSettings.Users rather than a normalized table, matching how the
// settings screen manages them.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahanw/restopos/internal/bus"
	"github.com/sahanw/restopos/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("user account is disabled")
)

// SettingsStore is the slice of the settings service the user service needs.
type SettingsStore interface {
	System(ctx context.Context) model.SystemSettings
	SetSystem(ctx context.Context, v model.SystemSettings) error
}

type Service struct {
	settings SettingsStore
	bus      *bus.Bus
	logger   *zap.Logger
}

func NewService(settings SettingsStore, b *bus.Bus, log *zap.Logger) *Service {
	return &Service{settings: settings, bus: b, logger: log}
}

// Authenticate verifies a username/password pair against the stored
// accounts. The returned user has its password cleared. Last-login tracking
// is best-effort and never fails the login.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	sys := s.settings.System(ctx)

	idx := -1
	for i, u := range sys.Users {
		if strings.EqualFold(u.Name, username) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrInvalidCredentials
	}

	u := sys.Users[idx]
	if !u.IsActive {
		return nil, ErrInactive
	}
	if err := s.verifyPassword(&sys, idx, password); err != nil {
		return nil, err
	}

	now := time.Now()
	sys.Users[idx].LastLogin = &now
	if err := s.settings.SetSystem(ctx, sys); err != nil {
		s.logger.Warn("last-login update failed", zap.String("user", u.ID), zap.Error(err))
	}

	s.bus.Publish(bus.UserDataUpdated, u.ID)
	s.logger.Info("user authenticated", zap.String("user", u.ID), zap.String("role", string(u.Role)))

	out := sys.Users[idx]
	out.Password = ""
	out.PIN = ""
	return &out, nil
}

// verifyPassword compares against the stored bcrypt hash. Accounts created
// before hashing was introduced still carry plaintext; those are accepted,
// logged, and upgraded to a hash in place.
func (s *Service) verifyPassword(sys *model.SystemSettings, idx int, password string) error {
	stored := sys.Users[idx].Password
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return ErrInvalidCredentials
		}
		return nil
	}

	if stored == "" || stored != password {
		return ErrInvalidCredentials
	}

	s.logger.Warn("legacy plaintext password accepted, upgrading to bcrypt",
		zap.String("user", sys.Users[idx].ID))
	if hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		sys.Users[idx].Password = string(hashed)
	}
	return nil
}

// HashPassword is used by account management when creating or changing
// credentials.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
