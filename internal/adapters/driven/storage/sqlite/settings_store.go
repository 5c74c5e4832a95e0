package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// ==================== Settings Store ====================

// settingsStore implements driven.SettingsStore.
type settingsStore struct {
	store *Store
}

var _ driven.SettingsStore = (*settingsStore)(nil)

// InitDefaults inserts the singleton row if it does not exist yet.
func (s *settingsStore) InitDefaults(ctx context.Context) error {
	defaults := domain.DefaultAppSettings()
	res, err := s.store.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO app_settings (id, dark_mode) VALUES (1, ?)", boolToInt(defaults.DarkMode))
	if err != nil {
		return fmt.Errorf("initialising settings: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.store.publish(domain.TableSettings)
	}
	return nil
}

// GetSettings returns the settings row, or defaults if it is absent.
func (s *settingsStore) GetSettings(ctx context.Context) (domain.AppSettings, error) {
	var darkMode bool
	err := s.store.db.QueryRowContext(ctx, "SELECT dark_mode FROM app_settings WHERE id = 1").Scan(&darkMode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultAppSettings(), nil
	}
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("reading settings: %w", err)
	}
	return domain.AppSettings{DarkMode: darkMode}, nil
}

// SetDarkMode writes the dark-mode flag, creating the row if needed.
func (s *settingsStore) SetDarkMode(ctx context.Context, enabled bool) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO app_settings (id, dark_mode) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET dark_mode = excluded.dark_mode
	`, boolToInt(enabled))
	if err != nil {
		return fmt.Errorf("saving dark mode: %w", err)
	}
	s.store.publish(domain.TableSettings)
	return nil
}

// ToggleDarkMode flips the flag in a single statement.
func (s *settingsStore) ToggleDarkMode(ctx context.Context) (bool, error) {
	if err := s.InitDefaults(ctx); err != nil {
		return false, err
	}

	var darkMode bool
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE app_settings SET dark_mode = 1 - dark_mode WHERE id = 1"); err != nil {
			return fmt.Errorf("toggling dark mode: %w", err)
		}
		if err := tx.QueryRowContext(ctx, "SELECT dark_mode FROM app_settings WHERE id = 1").Scan(&darkMode); err != nil {
			return fmt.Errorf("reading dark mode: %w", err)
		}
		return nil
	}, domain.TableSettings)
	if err != nil {
		return false, err
	}
	return darkMode, nil
}
