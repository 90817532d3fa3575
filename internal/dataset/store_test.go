package dataset

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/insightsphere/internal/models"
	"github.com/ukydev/insightsphere/internal/pricing"
	"github.com/ukydev/insightsphere/internal/recommend"
)

type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) LoadDistanceTable(ctx context.Context) (*recommend.DistanceTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommend.DistanceTable), args.Error(1)
}

type MockPropertySource struct {
	mock.Mock
}

func (m *MockPropertySource) LoadProperties(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

type MockPipelineSource struct {
	mock.Mock
}

func (m *MockPipelineSource) LoadPipeline(ctx context.Context) (*pricing.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Pipeline), args.Error(1)
}

func newTable(t *testing.T, columns map[string]map[string]float64) *recommend.DistanceTable {
	t.Helper()
	table, err := recommend.NewDistanceTable(columns)
	require.NoError(t, err)
	return table
}

func TestStore_Load(t *testing.T) {
	table := newTable(t, map[string]map[string]float64{"A": {"B": 1000}, "B": {"A": 1000}})
	props := []models.Property{{Sector: "sector 1"}}
	pipeline := &pricing.Pipeline{Target: pricing.TargetIdentity}

	tables := new(MockTableSource)
	tables.On("LoadDistanceTable", mock.Anything).Return(table, nil)
	listings := new(MockPropertySource)
	listings.On("LoadProperties", mock.Anything).Return(props, nil)
	pipelines := new(MockPipelineSource)
	pipelines.On("LoadPipeline", mock.Anything).Return(pipeline, nil)

	store := NewStore(Sources{Table: tables, Properties: listings, Pipeline: pipelines})
	assert.False(t, store.Ready())
	assert.Nil(t, store.Table())
	assert.Nil(t, store.Properties())

	require.NoError(t, store.Load(context.Background()))
	assert.True(t, store.Ready())
	assert.Same(t, table, store.Table())
	assert.Equal(t, props, store.Properties())
	assert.Same(t, pipeline, store.Pipeline())

	tables.AssertExpectations(t)
	listings.AssertExpectations(t)
	pipelines.AssertExpectations(t)
}

func TestStore_PartialFailure(t *testing.T) {
	tables := new(MockTableSource)
	tables.On("LoadDistanceTable", mock.Anything).Return(nil, errors.New("disk on fire"))
	listings := new(MockPropertySource)
	listings.On("LoadProperties", mock.Anything).Return([]models.Property{}, nil)

	store := NewStore(Sources{Table: tables, Properties: listings})
	err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distance_table")

	assert.Nil(t, store.Table())
	assert.True(t, store.PropertiesLoaded())
	assert.False(t, store.Ready())
}

func TestStore_ReloadKeepsPreviousOnFailure(t *testing.T) {
	first := newTable(t, map[string]map[string]float64{"A": {"B": 1000}})
	second := newTable(t, map[string]map[string]float64{"A": {"B": 2000}, "C": {}})

	tables := new(MockTableSource)
	tables.On("LoadDistanceTable", mock.Anything).Return(first, nil).Once()
	tables.On("LoadDistanceTable", mock.Anything).Return(nil, errors.New("truncated")).Once()
	tables.On("LoadDistanceTable", mock.Anything).Return(second, nil).Once()

	store := NewStore(Sources{Table: tables})
	ctx := context.Background()

	require.NoError(t, store.ReloadTable(ctx))
	held := store.Table()
	assert.Same(t, first, held)

	assert.Error(t, store.Reload(ctx, ArtifactDistanceTable))
	assert.Same(t, first, store.Table())

	require.NoError(t, store.Reload(ctx, ArtifactDistanceTable))
	assert.Same(t, second, store.Table())

	// a table obtained before the swap is unchanged
	got, err := held.WithinRadius("A", math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, []recommend.Neighbor{{Location: "B", Meters: 1000}}, got)

	tables.AssertExpectations(t)
}

func TestStore_NotConfigured(t *testing.T) {
	store := NewStore(Sources{})
	ctx := context.Background()

	assert.NoError(t, store.Load(ctx))
	assert.True(t, store.Ready())
	assert.True(t, errors.Is(store.ReloadTable(ctx), ErrNotConfigured))
	assert.True(t, errors.Is(store.ReloadProperties(ctx), ErrNotConfigured))
	assert.True(t, errors.Is(store.ReloadPipeline(ctx), ErrNotConfigured))
	assert.Error(t, store.Reload(ctx, "weights"))
}
