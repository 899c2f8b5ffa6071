package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/model"
)

const (
	KeyTasks          = "tasks"
	KeyCategories     = "categories"
	KeyReminders      = "reminders"
	KeyConversations  = "conversations"
	KeyLanguage       = "pref.language"
	KeyTheme          = "pref.theme"
	KeyAccent         = "pref.accent"
	KeyFont           = "pref.font"
	KeyClientID       = "pref.classroom_client_id"
	KeyClassroomToken = "classroom.token"
)

// Snapshots maps the application's collections and preferences onto fixed
// store keys. Loads never fail: an absent or malformed blob yields the default.
type Snapshots struct {
	store Store
	log   zerolog.Logger
}

func NewSnapshots(store Store, log zerolog.Logger) *Snapshots {
	return &Snapshots{store: store, log: log}
}

func (s *Snapshots) Store() Store {
	return s.store
}

func (s *Snapshots) LoadTasks(ctx context.Context) []model.Task {
	return loadCollection[model.Task](ctx, s, KeyTasks)
}

func (s *Snapshots) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return s.SaveJSON(ctx, KeyTasks, nonNil(tasks))
}

func (s *Snapshots) LoadCategories(ctx context.Context) []model.Category {
	return loadCollection[model.Category](ctx, s, KeyCategories)
}

func (s *Snapshots) SaveCategories(ctx context.Context, categories []model.Category) error {
	return s.SaveJSON(ctx, KeyCategories, nonNil(categories))
}

func (s *Snapshots) LoadReminders(ctx context.Context) []model.Reminder {
	return loadCollection[model.Reminder](ctx, s, KeyReminders)
}

func (s *Snapshots) SaveReminders(ctx context.Context, reminders []model.Reminder) error {
	return s.SaveJSON(ctx, KeyReminders, nonNil(reminders))
}

func (s *Snapshots) LoadConversations(ctx context.Context) []model.Conversation {
	return loadCollection[model.Conversation](ctx, s, KeyConversations)
}

func (s *Snapshots) SaveConversations(ctx context.Context, convs []model.Conversation) error {
	return s.SaveJSON(ctx, KeyConversations, nonNil(convs))
}

// LoadPreferences reads each preference key on its own; a bad value only
// resets that one setting.
func (s *Snapshots) LoadPreferences(ctx context.Context) model.Preferences {
	prefs := model.DefaultPreferences()
	if v, ok := s.loadScalar(ctx, KeyLanguage); ok && model.IsLanguage(v) {
		prefs.Language = strings.ToLower(v)
	}
	if v, ok := s.loadScalar(ctx, KeyTheme); ok && model.IsTheme(v) {
		prefs.Theme = strings.ToLower(v)
	}
	if v, ok := s.loadScalar(ctx, KeyAccent); ok {
		if hex, valid := model.ResolveAccent(v); valid {
			prefs.Accent = hex
		}
	}
	if v, ok := s.loadScalar(ctx, KeyFont); ok {
		if font, valid := model.CanonicalFont(v); valid {
			prefs.Font = font
		}
	}
	if v, ok := s.loadScalar(ctx, KeyClientID); ok {
		prefs.ClassroomClientID = strings.TrimSpace(v)
	}
	return prefs
}

func (s *Snapshots) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	pairs := []struct {
		key   string
		value string
	}{
		{KeyLanguage, prefs.Language},
		{KeyTheme, prefs.Theme},
		{KeyAccent, prefs.Accent},
		{KeyFont, prefs.Font},
		{KeyClientID, prefs.ClassroomClientID},
	}
	var errs []error
	for _, p := range pairs {
		if err := s.SaveJSON(ctx, p.key, p.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadJSON decodes the blob at key into dst. ErrNotFound is returned as is.
func (s *Snapshots) LoadJSON(ctx context.Context, key string, dst any) error {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Snapshots) SaveJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Put(ctx, key, string(payload))
}

func (s *Snapshots) loadScalar(ctx context.Context, key string) (string, bool) {
	var v string
	if err := s.LoadJSON(ctx, key, &v); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("preference unreadable, using default")
		}
		return "", false
	}
	return v, true
}

func loadCollection[T any](ctx context.Context, s *Snapshots, key string) []T {
	out := make([]T, 0)
	var items []T
	if err := s.LoadJSON(ctx, key, &items); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("collection unreadable, starting empty")
		}
		return out
	}
	return append(out, items...)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
