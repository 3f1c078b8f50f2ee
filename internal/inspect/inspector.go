// Package inspect runs FMU extraction for one or many archives, consulting the
// result cache when one is configured.
package inspect

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/halentin/FMI-Viewer/internal/cache"
	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/fmu"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ResultCache is the subset of the cache manager the inspector needs.
type ResultCache interface {
	Get(key string) (*models.ParseResult, bool, error)
	Put(key, archivePath string, result *models.ParseResult) error
}

// Inspector coordinates extraction and caching
type Inspector struct {
	cache   ResultCache
	workers int
	logger  *logrus.Logger
	extract func(ctx context.Context, path string) (*models.ParseResult, error)
}

// BatchItem is the outcome for one path of a batch. Exactly one of Result and Err is set.
type BatchItem struct {
	Path   string
	Result *models.ParseResult
	Err    error
}

// BatchSummary contains aggregate counts for a batch run
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// NewInspector creates an inspector. resultCache may be nil; workers <= 0
// selects one worker per CPU.
func NewInspector(resultCache ResultCache, workers int, logger *logrus.Logger) *Inspector {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Inspector{
		cache:   resultCache,
		workers: workers,
		logger:  logger,
		extract: fmu.Extract,
	}
}

// Inspect extracts one archive. Cache failures are logged and never fail the call.
func (i *Inspector) Inspect(ctx context.Context, path string) (*models.ParseResult, error) {
	log := i.logger.WithField("path", path)

	var key string
	if i.cache != nil {
		k, err := cache.Key(path)
		if err == nil {
			key = k
			if result, ok, err := i.cache.Get(key); err != nil {
				log.WithError(err).Warn("Result cache read failed")
			} else if ok {
				log.Debug("Result cache hit")
				return result, nil
			}
		}
	}

	start := time.Now()
	result, err := i.extract(ctx, path)
	if err != nil {
		log.WithError(err).WithField("kind", fmierrors.GetType(err)).Debug("Extraction failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"fmi_version": result.FMIVersion,
		"variables":   len(result.Variables),
		"platforms":   len(result.Platforms),
		"duration":    time.Since(start).String(),
	}).Debug("Extracted model description")

	if key != "" {
		if err := i.cache.Put(key, path, result); err != nil {
			log.WithError(err).Warn("Result cache write failed")
		}
	}
	return result, nil
}

// InspectAll inspects paths concurrently, bounded by the worker count. Items
// are returned in input order. A failing archive does not stop the others;
// cancelling ctx does, and the context error is returned alongside the items.
func (i *Inspector) InspectAll(ctx context.Context, paths []string) ([]BatchItem, BatchSummary, error) {
	start := time.Now()
	i.logger.WithFields(logrus.Fields{
		"archives": len(paths),
		"workers":  i.workers,
	}).Info("Starting batch inspection")

	items := make([]BatchItem, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for idx, path := range paths {
		items[idx].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[idx].Err = err
				return nil
			}
			items[idx].Result, items[idx].Err = i.Inspect(gctx, path)
			return nil
		})
	}
	g.Wait()

	summary := BatchSummary{Total: len(paths), Duration: time.Since(start)}
	for _, item := range items {
		if item.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	i.logger.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"duration":  summary.Duration.String(),
	}).Info("Batch inspection completed")

	return items, summary, ctx.Err()
}
