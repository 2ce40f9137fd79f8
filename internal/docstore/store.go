package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/chem-is-try/po-generator/pkg/config"
	"github.com/chem-is-try/po-generator/pkg/enums"
	pkgerrors "github.com/chem-is-try/po-generator/pkg/errors"
	"github.com/chem-is-try/po-generator/pkg/logger"
	"github.com/chem-is-try/po-generator/pkg/metrics"
)

// Filenames are generated internally; anything else is rejected on open so a
// crafted path can never escape the output directory.
var filenameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*\.pdf$`)

// Store keeps generated PDFs on disk just long enough to be downloaded. The
// first successful download arms a timer that removes the file shortly after;
// stale files that were never fetched are swept by the janitor.
type Store struct {
	dir        string
	delay      time.Duration
	staleAfter time.Duration
	logg       *logger.Logger
	metrics    *metrics.DocumentMetrics

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewStore creates the output directory and returns a ready store.
func NewStore(cfg config.DocumentsConfig, logg *logger.Logger, docMetrics *metrics.DocumentMetrics) (*Store, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory required")
	}
	if cfg.EvictionDelay <= 0 {
		return nil, fmt.Errorf("eviction delay must be positive")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %q: %w", cfg.OutputDir, err)
	}
	return &Store{
		dir:        cfg.OutputDir,
		delay:      cfg.EvictionDelay,
		staleAfter: cfg.StaleAfter,
		logg:       logg,
		metrics:    docMetrics,
		timers:     make(map[string]*time.Timer),
	}, nil
}

// Put writes the document and returns the generated filename:
//
//	PO_{number}_{timestamp}.pdf (or INV_ for invoices)
func (s *Store) Put(ctx context.Context, kind enums.DocumentKind, number string, data []byte) (string, error) {
	if strings.TrimSpace(number) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "document number is required")
	}
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "document payload is empty")
	}

	prefix := "PO"
	if kind == enums.DocumentKindInvoice {
		prefix = "INV"
	}
	filename := fmt.Sprintf("%s_%s_%d.pdf", prefix, sanitizeNumber(number), time.Now().UnixNano())

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write document")
	}

	s.metrics.IncStored(kind.String())
	s.logg.Info(s.logg.WithField(ctx, "filename", filename), "document stored")
	return filename, nil
}

// Open returns the document bytes for a previously stored filename. The first
// successful open arms the eviction timer; unknown or already evicted names
// come back as not found.
func (s *Store) Open(ctx context.Context, filename string) ([]byte, error) {
	if !filenameRe.MatchString(filename) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read document")
	}

	s.metrics.IncDownload(kindFromFilename(filename))
	s.scheduleEviction(ctx, filename)
	return data, nil
}

// scheduleEviction arms a one-shot removal timer. Repeat downloads within the
// window reuse the existing timer rather than extending it.
func (s *Store) scheduleEviction(ctx context.Context, filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, armed := s.timers[filename]; armed {
		return
	}
	s.timers[filename] = time.AfterFunc(s.delay, func() {
		s.evict(filename)
	})
	s.logg.Info(s.logg.WithField(ctx, "filename", filename), "eviction scheduled")
}

func (s *Store) evict(filename string) {
	s.mu.Lock()
	delete(s.timers, filename)
	s.mu.Unlock()

	ctx := s.logg.WithField(context.Background(), "filename", filename)
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		if !os.IsNotExist(err) {
			s.logg.Error(ctx, "evict document", err)
		}
		return
	}
	s.metrics.IncEvicted("downloaded")
	s.logg.Info(ctx, "document evicted")
}

// SweepStale removes files older than the configured stale window. Run at
// boot to clear leftovers from a previous process.
func (s *Store) SweepStale(ctx context.Context) error {
	if s.staleAfter <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}

	cutoff := time.Now().Add(-s.staleAfter)
	var errs error
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stat %s: %w", entry.Name(), err))
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", entry.Name(), err))
			continue
		}
		s.metrics.IncEvicted("stale")
		removed++
	}

	if removed > 0 {
		s.logg.Info(s.logg.WithField(ctx, "removed", removed), "stale documents swept")
	}
	return errs
}

// Close stops all pending eviction timers. Files on disk are left for the
// next boot's sweep.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for filename, timer := range s.timers {
		timer.Stop()
		delete(s.timers, filename)
	}
}

func sanitizeNumber(number string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(number))
	return cleaned
}

func kindFromFilename(filename string) string {
	if strings.HasPrefix(filename, "INV_") {
		return enums.DocumentKindInvoice.String()
	}
	return enums.DocumentKindPurchaseOrder.String()
}
