// Package assets persists hosted images whose deletion is pending so a
// periodic sweep can retry it.
package assets

import (
	"context"

	"github.com/dmitrijs2005/biscotto/internal/server/models"
)

type Repository interface {
	Enqueue(ctx context.Context, publicID string, reason string) error
	Remove(ctx context.Context, publicID string) error
	ListPending(ctx context.Context, limit int) ([]models.OrphanedAsset, error)
	MarkAttempt(ctx context.Context, publicID string, reason string) error
}
