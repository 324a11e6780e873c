// Package settings stores display preferences: currency label, theme
// mode and the user's display name. Each preference is an independent
// key-value entry with no interaction with ledger invariants; the
// currency label is purely cosmetic and never affects stored amounts.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"kharcha/internal/core"
	"kharcha/internal/kv"
)

const (
	KeyCurrency  = "@currency"
	KeyThemeMode = "@theme_mode"
	KeyUserName  = "@user_name"

	DefaultCurrency = "USD"
	ThemeLight      = "light"
	ThemeDark       = "dark"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrUnknownTheme    = errors.New("unknown theme mode")
)

// Service reads preferences once at startup and keeps them in memory;
// saves follow the same soft-failure policy as the ledger (the session
// value wins, a failed write is logged).
type Service struct {
	mu    sync.Mutex
	store kv.Store

	currency string
	theme    string
	userName string
}

func New(store kv.Store) *Service {
	return &Service{
		store:    store,
		currency: DefaultCurrency,
		theme:    ThemeLight,
	}
}

// Load pulls saved preferences, keeping defaults for anything absent or
// unreadable.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.get(ctx, KeyCurrency); ok {
		s.currency = v
	}
	if v, ok := s.get(ctx, KeyThemeMode); ok {
		s.theme = v
	}
	if v, ok := s.get(ctx, KeyUserName); ok {
		s.userName = v
	}
}

func (s *Service) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load preference, keeping default",
			"key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *Service) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

func (s *Service) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Service) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userName
}

// SetCurrency validates against the supported labels and persists.
func (s *Service) SetCurrency(ctx context.Context, currency string) error {
	valid := false
	for _, c := range core.Currencies {
		if c == currency {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownCurrency
	}
	s.mu.Lock()
	s.currency = currency
	s.mu.Unlock()
	s.save(ctx, KeyCurrency, currency)
	return nil
}

func (s *Service) SetTheme(ctx context.Context, mode string) error {
	if mode != ThemeLight && mode != ThemeDark {
		return ErrUnknownTheme
	}
	s.mu.Lock()
	s.theme = mode
	s.mu.Unlock()
	s.save(ctx, KeyThemeMode, mode)
	return nil
}

func (s *Service) SetUserName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	s.userName = name
	s.mu.Unlock()
	s.save(ctx, KeyUserName, name)
	return nil
}

func (s *Service) save(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		slog.WarnContext(ctx, "Failed to persist preference, session value kept",
			"key", key, "error", err)
	}
}
