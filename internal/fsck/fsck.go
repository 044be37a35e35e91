// Package fsck runs read-only consistency checks over a mounted filesystem,
// verifying the invariants between the FAT and the root directory that
// mount-time validation alone doesn't cover.
package fsck

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ostafen/ecs150fs/fs"
)

// Report is the outcome of a single check pass.
type Report struct {
	FilesChecked int
	Errors       error
}

// OK reports whether no inconsistency was found.
func (r Report) OK() bool {
	return r.Errors == nil
}

// Run walks every directory entry of fsys, confirming: no two entries share
// a name, each file's FAT chain is exactly as long as its reported size
// requires, and no two files' chains share a data block. Per-file chain
// walks run concurrently; findings are merged with multierr rather than
// failing fast, so a single corrupt entry doesn't hide the rest.
func Run(ctx context.Context, fsys *fs.FileSystem) (Report, error) {
	entries, err := fsys.Ls()
	if err != nil {
		return Report{}, err
	}

	var rep Report
	rep.FilesChecked = len(entries)
	rep.Errors = multierr.Append(rep.Errors, checkDuplicateNames(entries))

	chains := make([][]int, len(entries))
	eg, _ := errgroup.WithContext(ctx)
	sizeErrs := make([]error, len(entries))
	for i, e := range entries {
		i, e := i, e
		eg.Go(func() error {
			chain, err := checkEntry(fsys, e)
			chains[i] = chain
			sizeErrs[i] = err
			return nil
		})
	}
	_ = eg.Wait()

	for _, err := range sizeErrs {
		rep.Errors = multierr.Append(rep.Errors, err)
	}
	rep.Errors = multierr.Append(rep.Errors, checkDisjointChains(entries, chains))

	return rep, nil
}

// checkDuplicateNames reports an error for every name that appears more
// than once among entries, since fs/dir guarantees uniqueness only for the
// lifetime of a single mount, not across a raw directory block.
func checkDuplicateNames(entries []fs.DirEntry) error {
	seen := make(map[string]int, len(entries))
	var err error
	for _, e := range entries {
		seen[e.Name]++
		if seen[e.Name] == 2 {
			err = multierr.Append(err, fmt.Errorf("%q: duplicate directory entry", e.Name))
		}
	}
	return err
}

// checkDisjointChains reports an error for every data block claimed by more
// than one file's FAT chain.
func checkDisjointChains(entries []fs.DirEntry, chains [][]int) error {
	owner := make(map[int]string)
	var err error
	for i, chain := range chains {
		name := entries[i].Name
		for _, block := range chain {
			if other, ok := owner[block]; ok {
				err = multierr.Append(err, fmt.Errorf("data block %d is shared by %q and %q", block, other, name))
				continue
			}
			owner[block] = name
		}
	}
	return err
}

func checkEntry(fsys *fs.FileSystem, e fs.DirEntry) ([]int, error) {
	chain, err := fsys.Chain(int(e.FirstBlock))
	if err != nil {
		return nil, fmt.Errorf("%q: %w", e.Name, err)
	}

	wantBlocks := blocksFor(e.Size)
	if len(chain) != wantBlocks {
		return chain, fmt.Errorf("%q: size %d implies %d blocks, FAT chain has %d", e.Name, e.Size, wantBlocks, len(chain))
	}
	return chain, nil
}

func blocksFor(size uint32) int {
	if size == 0 {
		return 0
	}
	return int((uint64(size) + fs.BlockSize - 1) / fs.BlockSize)
}
