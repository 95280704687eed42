package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/dmitrijs2005/biscotto/internal/server/images"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/repomanager"
)

// SweepBatchSize caps how many orphaned assets one sweep handles.
const SweepBatchSize = 100

// AssetService deletes hosted images that are no longer referenced. A
// pending deletion is always recorded in orphaned_assets first, so a failed
// delete is retried by Sweep instead of being lost.
type AssetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      images.Store
	logger      logging.Logger
}

func NewAssetService(db *sql.DB, m repomanager.RepositoryManager, st images.Store, l logging.Logger) *AssetService {
	return &AssetService{db: db, repomanager: m, images: st, logger: l.With("module", "asset_service")}
}

// Reclaim deletes an already enqueued asset and drops its queue row. Errors
// are logged; the row stays for the next sweep.
func (s *AssetService) Reclaim(ctx context.Context, publicID string) bool {
	// the request may be gone by now, cleanup still has to finish
	ctx = context.WithoutCancel(ctx)
	repo := s.repomanager.Assets(s.db)

	if err := s.images.Delete(ctx, publicID); err != nil {
		s.logger.Warn(ctx, "asset deletion failed, left for sweep", "public_id", publicID, "error", err)
		if err := repo.MarkAttempt(ctx, publicID, err.Error()); err != nil {
			s.logger.Error(ctx, "marking asset attempt failed", "public_id", publicID, "error", err)
		}
		return false
	}

	if err := repo.Remove(ctx, publicID); err != nil {
		s.logger.Error(ctx, "dropping asset queue row failed", "public_id", publicID, "error", err)
	}
	return true
}

// Discard enqueues and reclaims an asset that was uploaded but never
// referenced by a committed record.
func (s *AssetService) Discard(ctx context.Context, publicID string, reason string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.repomanager.Assets(s.db).Enqueue(ctx, publicID, reason); err != nil {
		s.logger.Error(ctx, "enqueueing orphaned asset failed", "public_id", publicID, "error", err)
	}
	s.Reclaim(ctx, publicID)
}

// Sweep retries pending deletions and returns how many succeeded.
func (s *AssetService) Sweep(ctx context.Context) (int, error) {
	pending, err := s.repomanager.Assets(s.db).ListPending(ctx, SweepBatchSize)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, a := range pending {
		if ctx.Err() != nil {
			break
		}
		if s.Reclaim(ctx, a.PublicID) {
			deleted++
		}
	}

	if len(pending) > 0 {
		s.logger.Info(ctx, "orphaned asset sweep finished", "pending", len(pending), "deleted", deleted)
	}
	return deleted, nil
}
