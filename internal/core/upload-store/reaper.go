package uploadstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultRetentionWindow = 24 * time.Hour
	DefaultReapInterval    = 12 * time.Hour
)

// Reap deletes every artifact older than maxAge. Deletes run as a bounded
// concurrent batch; one failing delete is logged and must not abort the
// scan, so workers never return an error.
func (s *Store) Reap(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("scan upload dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	var removed atomic.Int64

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		g.Go(func() error {
			if s.reapOne(name, cutoff) {
				removed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(removed.Load()), nil
}

// reapOne deletes a single expired entry and reports whether this call did
// the delete. A file that vanished between the scan and the remove was
// someone else's delete and is not counted.
func (s *Store) reapOne(name string, cutoff time.Time) bool {
	if artifactTime(s.dir, name).After(cutoff) {
		return false
	}
	err := os.Remove(filepath.Join(s.dir, name))
	switch {
	case err == nil:
		return true
	case os.IsNotExist(err):
		return false
	default:
		log.Printf("reaper: remove %s failed: %v", name, err)
		return false
	}
}

// StartReaper runs Reap on a fixed interval until ctx is cancelled.
func (s *Store) StartReaper(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultRetentionWindow
	}
	go s.reapLoop(ctx, interval, maxAge)
}

func (s *Store) reapLoop(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Reap(ctx, maxAge)
			if err != nil {
				log.Printf("reaper: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("reaper: removed %d expired upload(s)", n)
			}
		}
	}
}
