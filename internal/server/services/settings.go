package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/settings"
)

// SettingsService serves the home and about singleton documents. Defaults
// are materialized with an insert-if-absent keyed by settings type, so
// concurrent first reads cannot create two records.
type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *SettingsService {
	return &SettingsService{db: db, repomanager: m, logger: l.With("module", "settings_service")}
}

// EnsureDefaults creates both documents with default content if missing.
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	repo := s.repomanager.Settings(s.db)
	if err := ensure(ctx, repo, models.SettingsHome, models.DefaultHomeSettings()); err != nil {
		return err
	}
	return ensure(ctx, repo, models.SettingsAbout, models.DefaultAboutSettings())
}

func (s *SettingsService) GetHome(ctx context.Context) (*models.HomeSettings, error) {
	v, updated, err := getDocument(ctx, s.repomanager.Settings(s.db), models.SettingsHome, models.DefaultHomeSettings())
	if err != nil {
		return nil, err
	}
	v.UpdatedAt = updated
	return v, nil
}

func (s *SettingsService) GetAbout(ctx context.Context) (*models.AboutSettings, error) {
	v, updated, err := getDocument(ctx, s.repomanager.Settings(s.db), models.SettingsAbout, models.DefaultAboutSettings())
	if err != nil {
		return nil, err
	}
	v.UpdatedAt = updated
	return v, nil
}

// UpdateHome merges the supplied fields into the home document.
func (s *SettingsService) UpdateHome(ctx context.Context, patch models.HomeSettingsPatch) (*models.HomeSettings, error) {
	var out *models.HomeSettings
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		v, updated, err := updateDocument(ctx, s.repomanager.Settings(tx), models.SettingsHome, models.DefaultHomeSettings(),
			func(h *models.HomeSettings) { patch.Apply(h) })
		if err != nil {
			return err
		}
		v.UpdatedAt = updated
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "settings updated", "type", models.SettingsHome)
	return out, nil
}

// UpdateAbout merges the supplied fields into the about document.
func (s *SettingsService) UpdateAbout(ctx context.Context, patch models.AboutSettingsPatch) (*models.AboutSettings, error) {
	var out *models.AboutSettings
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		v, updated, err := updateDocument(ctx, s.repomanager.Settings(tx), models.SettingsAbout, models.DefaultAboutSettings(),
			func(a *models.AboutSettings) { patch.Apply(a) })
		if err != nil {
			return err
		}
		v.UpdatedAt = updated
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "settings updated", "type", models.SettingsAbout)
	return out, nil
}

// --- helpers below ---

func ensure[T any](ctx context.Context, repo settings.Repository, typ string, defaults T) error {
	body, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encoding %s defaults: %w", typ, err)
	}
	if err := repo.Ensure(ctx, typ, body); err != nil {
		return fmt.Errorf("error ensuring %s settings: %w", typ, err)
	}
	return nil
}

func decode[T any](typ string, doc *settings.Document) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(doc.Data, v); err != nil {
		return nil, fmt.Errorf("%w: corrupt %s settings: %v", common.ErrorInternal, typ, err)
	}
	return v, nil
}

func getDocument[T any](ctx context.Context, repo settings.Repository, typ string, defaults T) (*T, time.Time, error) {
	doc, err := repo.Get(ctx, typ)
	if errors.Is(err, common.ErrorNotFound) {
		if err := ensure(ctx, repo, typ, defaults); err != nil {
			return nil, time.Time{}, err
		}
		doc, err = repo.Get(ctx, typ)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("error reading %s settings: %w", typ, err)
	}

	v, err := decode[T](typ, doc)
	if err != nil {
		return nil, time.Time{}, err
	}
	return v, doc.UpdatedAt, nil
}

func updateDocument[T any](ctx context.Context, repo settings.Repository, typ string, defaults T, apply func(*T)) (*T, time.Time, error) {
	if err := ensure(ctx, repo, typ, defaults); err != nil {
		return nil, time.Time{}, err
	}

	doc, err := repo.GetForUpdate(ctx, typ)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("error reading %s settings: %w", typ, err)
	}

	v, err := decode[T](typ, doc)
	if err != nil {
		return nil, time.Time{}, err
	}
	apply(v)

	body, err := json.Marshal(v)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("encoding %s settings: %w", typ, err)
	}

	saved, err := repo.Put(ctx, typ, body)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("error saving %s settings: %w", typ, err)
	}
	return v, saved.UpdatedAt, nil
}
