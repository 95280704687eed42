package models

import "time"

// OrphanedAsset is a hosted image whose deletion failed or was deferred and
// is waiting for the sweep job.
type OrphanedAsset struct {
	PublicID  string
	Reason    string
	Attempts  int
	CreatedAt time.Time
}
