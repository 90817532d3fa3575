package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/metrics"
	"github.com/ukydev/insightsphere/internal/models"
	"github.com/ukydev/insightsphere/internal/pricing"
	"github.com/ukydev/insightsphere/internal/recommend"
)

// Artifact names, as used in logs, metrics and refresh messages.
const (
	ArtifactDistanceTable = "distance_table"
	ArtifactProperties    = "properties"
	ArtifactPipeline      = "pipeline"
)

var ErrNotConfigured = errors.New("artifact source not configured")

// PipelineSource loads the price pipeline.
type PipelineSource interface {
	LoadPipeline(ctx context.Context) (*pricing.Pipeline, error)
}

// PipelineFile reads a JSON pipeline from disk.
type PipelineFile struct {
	Path string
}

// LoadPipeline implements PipelineSource.
func (s PipelineFile) LoadPipeline(ctx context.Context) (*pricing.Pipeline, error) {
	return pricing.LoadPipeline(s.Path)
}

// Sources are the loaders a Store reads from. A nil source leaves that
// artifact unavailable.
type Sources struct {
	Table      TableSource
	Properties PropertySource
	Pipeline   PipelineSource
}

// Store holds the loaded artifacts. Each artifact is published as a whole and
// never modified afterwards, so readers need no locking; a reload swaps in a
// new value and a failed reload keeps the previous one.
type Store struct {
	sources Sources

	table      atomic.Pointer[recommend.DistanceTable]
	properties atomic.Pointer[[]models.Property]
	pipeline   atomic.Pointer[pricing.Pipeline]
}

// NewStore creates an empty store. Call Load before serving.
func NewStore(sources Sources) *Store {
	return &Store{sources: sources}
}

// Load loads every configured artifact. It returns the joined errors of the
// artifacts that failed; the others are still published.
func (s *Store) Load(ctx context.Context) error {
	var errs []error
	if s.sources.Table != nil {
		errs = append(errs, s.ReloadTable(ctx))
	}
	if s.sources.Properties != nil {
		errs = append(errs, s.ReloadProperties(ctx))
	}
	if s.sources.Pipeline != nil {
		errs = append(errs, s.ReloadPipeline(ctx))
	}
	return errors.Join(errs...)
}

// Reload reloads a single artifact by name.
func (s *Store) Reload(ctx context.Context, artifact string) error {
	switch artifact {
	case ArtifactDistanceTable:
		return s.ReloadTable(ctx)
	case ArtifactProperties:
		return s.ReloadProperties(ctx)
	case ArtifactPipeline:
		return s.ReloadPipeline(ctx)
	default:
		return fmt.Errorf("unknown artifact %q", artifact)
	}
}

// ReloadTable reads the distance table and publishes it.
func (s *Store) ReloadTable(ctx context.Context) error {
	if s.sources.Table == nil {
		return fmt.Errorf("%s: %w", ArtifactDistanceTable, ErrNotConfigured)
	}
	table, err := s.sources.Table.LoadDistanceTable(ctx)
	if err != nil {
		return loadFailed(ArtifactDistanceTable, err)
	}
	s.table.Store(table)
	metrics.DistanceTableLocations.Set(float64(table.Len()))
	loadSucceeded(ArtifactDistanceTable, table.Len())
	return nil
}

// ReloadProperties reads the listing dataset and publishes it.
func (s *Store) ReloadProperties(ctx context.Context) error {
	if s.sources.Properties == nil {
		return fmt.Errorf("%s: %w", ArtifactProperties, ErrNotConfigured)
	}
	props, err := s.sources.Properties.LoadProperties(ctx)
	if err != nil {
		return loadFailed(ArtifactProperties, err)
	}
	s.properties.Store(&props)
	metrics.PropertiesLoaded.Set(float64(len(props)))
	loadSucceeded(ArtifactProperties, len(props))
	return nil
}

// ReloadPipeline reads the price pipeline and publishes it.
func (s *Store) ReloadPipeline(ctx context.Context) error {
	if s.sources.Pipeline == nil {
		return fmt.Errorf("%s: %w", ArtifactPipeline, ErrNotConfigured)
	}
	p, err := s.sources.Pipeline.LoadPipeline(ctx)
	if err != nil {
		return loadFailed(ArtifactPipeline, err)
	}
	s.pipeline.Store(p)
	loadSucceeded(ArtifactPipeline, len(p.Numeric)+len(p.Categorical))
	return nil
}

// Table returns the current distance table, or nil before it is loaded.
func (s *Store) Table() *recommend.DistanceTable {
	return s.table.Load()
}

// Properties returns the current listings, or nil before they are loaded.
// The slice is shared and must not be modified.
func (s *Store) Properties() []models.Property {
	p := s.properties.Load()
	if p == nil {
		return nil
	}
	return *p
}

// PropertiesLoaded reports whether the listing dataset has been loaded.
func (s *Store) PropertiesLoaded() bool {
	return s.properties.Load() != nil
}

// Pipeline returns the current price pipeline, or nil before it is loaded.
func (s *Store) Pipeline() *pricing.Pipeline {
	return s.pipeline.Load()
}

// Ready reports whether every configured artifact has been loaded.
func (s *Store) Ready() bool {
	if s.sources.Table != nil && s.Table() == nil {
		return false
	}
	if s.sources.Properties != nil && !s.PropertiesLoaded() {
		return false
	}
	if s.sources.Pipeline != nil && s.Pipeline() == nil {
		return false
	}
	return true
}

func loadFailed(artifact string, err error) error {
	metrics.ArtifactLoads.WithLabelValues(artifact, "error").Inc()
	log.WithError(err).WithField("artifact", artifact).Error("Failed to load artifact")
	return fmt.Errorf("load %s: %w", artifact, err)
}

func loadSucceeded(artifact string, size int) {
	metrics.ArtifactLoads.WithLabelValues(artifact, "success").Inc()
	log.WithFields(log.Fields{"artifact": artifact, "size": size}).Info("Loaded artifact")
}
