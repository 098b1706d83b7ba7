package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bearthen/library/internal/library"
)

// AssetVerifier clears asset paths that point at missing files.
type AssetVerifier interface {
	VerifyAssets(ctx context.Context) (library.VerifyResult, error)
}

// OrphanPruner removes list entries and files left behind by deleted books.
type OrphanPruner interface {
	PruneOrphans() (library.PruneResult, error)
}

var retention = &backlite.Retention{
	Duration:   24 * time.Hour,
	OnlyFailed: false,
	Data:       &backlite.RetainData{OnlyFailed: true},
}

// VerifyAssetsTask checks every stored cover_local and file_path.
type VerifyAssetsTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for asset verification.
func (t VerifyAssetsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "verify_assets",
		MaxAttempts: 2,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention:   retention,
	}
}

// VerifyAssetsProcessor creates a processor function for VerifyAssetsTask.
func VerifyAssetsProcessor(verifier AssetVerifier) backlite.QueueProcessor[VerifyAssetsTask] {
	return func(ctx context.Context, task VerifyAssetsTask) error {
		if verifier == nil {
			return fmt.Errorf("asset verifier not configured")
		}

		result, err := verifier.VerifyAssets(ctx)
		if err != nil {
			return fmt.Errorf("verify assets: %w", err)
		}

		log.Printf("[TASK] Verified %d books (%s): cleared %d covers, %d files",
			result.Checked, task.Reason, result.ClearedCovers, result.ClearedFiles)
		return nil
	}
}

// NewVerifyAssetsQueue creates a backlite queue for asset verification.
func NewVerifyAssetsQueue(verifier AssetVerifier) backlite.Queue {
	return backlite.NewQueue(VerifyAssetsProcessor(verifier))
}

// PruneOrphansTask removes data orphaned by RemoveBook.
type PruneOrphansTask struct{}

// Config returns the queue configuration for orphan pruning.
func (t PruneOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_orphans",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention:   retention,
	}
}

// PruneOrphansProcessor creates a processor function for PruneOrphansTask.
func PruneOrphansProcessor(pruner OrphanPruner) backlite.QueueProcessor[PruneOrphansTask] {
	return func(ctx context.Context, task PruneOrphansTask) error {
		if pruner == nil {
			return fmt.Errorf("orphan pruner not configured")
		}

		result, err := pruner.PruneOrphans()
		if err != nil {
			return fmt.Errorf("prune orphans: %w", err)
		}

		log.Printf("[TASK] Pruned %d orphan list entries, %d asset files", result.ListEntries, result.AssetFiles)
		return nil
	}
}

// NewPruneOrphansQueue creates a backlite queue for orphan pruning.
func NewPruneOrphansQueue(pruner OrphanPruner) backlite.Queue {
	return backlite.NewQueue(PruneOrphansProcessor(pruner))
}
