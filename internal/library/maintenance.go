package library

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bearthen/library/internal/assets"
)

// verifyConcurrency bounds parallel stat calls in VerifyAssets.
const verifyConcurrency = 8

// VerifyResult summarizes a VerifyAssets run.
type VerifyResult struct {
	Checked       int `json:"checked"`
	ClearedCovers int `json:"cleared_covers"`
	ClearedFiles  int `json:"cleared_files"`
}

// VerifyAssets clears cover_local and file_path values that point at files
// which no longer exist, so readers fall back to the remote URLs.
func (s *Store) VerifyAssets(ctx context.Context) (VerifyResult, error) {
	refs, err := s.books.GetAssetRefs()
	if err != nil {
		return VerifyResult{}, fmt.Errorf("load asset paths: %w", err)
	}

	var (
		mu            sync.Mutex
		missingCovers []string
		missingFiles  []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)
	for _, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			coverGone := ref.CoverLocal != "" && !assets.Exists(ref.CoverLocal)
			fileGone := ref.FilePath != "" && !assets.Exists(ref.FilePath)
			if !coverGone && !fileGone {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if coverGone {
				missingCovers = append(missingCovers, ref.ID)
			}
			if fileGone {
				missingFiles = append(missingFiles, ref.ID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return VerifyResult{}, err
	}

	if err := s.books.ClearAssetPaths(missingCovers, missingFiles); err != nil {
		return VerifyResult{}, fmt.Errorf("clear asset paths: %w", err)
	}

	result := VerifyResult{
		Checked:       len(refs),
		ClearedCovers: len(missingCovers),
		ClearedFiles:  len(missingFiles),
	}
	if result.ClearedCovers > 0 || result.ClearedFiles > 0 {
		log.Printf("Library: cleared %d missing covers and %d missing book files", result.ClearedCovers, result.ClearedFiles)
	}
	return result, nil
}

// PruneResult summarizes a PruneOrphans run.
type PruneResult struct {
	ListEntries   int64 `json:"list_entries"`
	AssetFiles    int   `json:"asset_files"`
	AssetsSkipped bool  `json:"assets_skipped"`
}

// PruneOrphans removes what RemoveBook leaves behind: list entries whose
// book is gone and, when an asset directory is configured, cover and EPUB
// files whose book is gone. It is never run implicitly.
func (s *Store) PruneOrphans() (PruneResult, error) {
	var result PruneResult

	n, err := s.lists.DeleteOrphanEntries()
	if err != nil {
		return result, fmt.Errorf("delete orphan list entries: %w", err)
	}
	result.ListEntries = n

	if s.assets == nil {
		result.AssetsSkipped = true
		return result, nil
	}

	ids, err := s.books.GetIDs()
	if err != nil {
		return result, fmt.Errorf("load book ids: %w", err)
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	files, err := s.assets.List()
	if err != nil {
		return result, fmt.Errorf("list assets: %w", err)
	}
	seen := make(map[string]bool)
	for _, f := range files {
		if known[f.BookID] || seen[f.BookID] {
			continue
		}
		seen[f.BookID] = true
		n, err := s.assets.RemoveBookAssets(f.BookID)
		result.AssetFiles += n
		if err != nil {
			return result, fmt.Errorf("remove assets of %s: %w", f.BookID, err)
		}
	}

	log.Printf("Library: pruned %d orphan list entries and %d orphan asset files", result.ListEntries, result.AssetFiles)
	return result, nil
}
