package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/localdeals/internal/domain/entities"
)

func TestClassifyDeal_Boundaries(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	deal := &entities.Deal{Start: "2024-05-01T10:00", Duration: 2}
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, loc)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want entities.DealState
	}{
		{"before start", start.Add(-time.Second), entities.DealStateFuture},
		{"at start", start, entities.DealStateActive},
		{"inside window", start.Add(time.Hour), entities.DealStateActive},
		{"just before end", end.Add(-time.Nanosecond), entities.DealStateActive},
		{"at end", end, entities.DealStatePast},
		{"after end", end.Add(time.Minute), entities.DealStatePast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entities.ClassifyDeal(deal, tt.now, loc))
		})
	}
}

func TestClassifyDeal_UnreadableStartIsPast(t *testing.T) {
	deal := &entities.Deal{Start: "tomorrow", Duration: 24}
	assert.Equal(t, entities.DealStatePast, entities.ClassifyDeal(deal, time.Now(), time.UTC))
}

func TestPartitionDeals_DisjointAndOrdered(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, loc)

	deals := []*entities.Deal{
		{ID: "p1", Start: "2024-04-30T08:00", Duration: 1},
		{ID: "a1", Start: "2024-05-01T11:00", Duration: 2},
		{ID: "f1", Start: "2024-05-02T08:00", Duration: 1},
		{ID: "a2", Start: "2024-05-01T12:00", Duration: 1},
		{ID: "p2", Start: "2024-05-01T10:00", Duration: 2},
		{ID: "f2", Start: "2024-05-01T12:01", Duration: 1},
	}

	sorted := entities.PartitionDeals(deals, now, loc)

	ids := func(ds []*entities.Deal) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}

	assert.Equal(t, []string{"p1", "p2"}, ids(sorted.Past))
	assert.Equal(t, []string{"a1", "a2"}, ids(sorted.Active))
	assert.Equal(t, []string{"f1", "f2"}, ids(sorted.Future))
	assert.Equal(t, len(deals), len(sorted.Past)+len(sorted.Active)+len(sorted.Future))
}

func TestPartitionDeals_EmptyBucketsSerialiseAsArrays(t *testing.T) {
	sorted := entities.PartitionDeals(nil, time.Now(), time.UTC)

	body, err := json.Marshal(sorted)
	require.NoError(t, err)
	assert.JSONEq(t, `{"past":[],"future":[],"active":[]}`, string(body))
}

func TestDealFilter_Query(t *testing.T) {
	extent := entities.Extent{0, 0, 10, 10}
	munich := &entities.Position{Latitude: 48.1, Longitude: 11.5}

	t.Run("extent with category", func(t *testing.T) {
		q, ok := entities.DealFilter{Extent: &extent, CategoryIDs: []int64{2}}.Query()
		require.True(t, ok)
		assert.Equal(t, entities.GeoModeExtent, q.Mode)
		assert.Equal(t, extent, q.Extent)
		assert.Equal(t, []int64{2}, q.CategoryIDs)
	})

	t.Run("extent wins over radius", func(t *testing.T) {
		q, ok := entities.DealFilter{Extent: &extent, Location: munich, Radius: 5}.Query()
		require.True(t, ok)
		assert.Equal(t, entities.GeoModeExtent, q.Mode)
	})

	t.Run("radius and location", func(t *testing.T) {
		q, ok := entities.DealFilter{Location: munich, Radius: 5}.Query()
		require.True(t, ok)
		assert.Equal(t, entities.GeoModeRadius, q.Mode)
		assert.Equal(t, *munich, q.Location)
		assert.Equal(t, 5.0, q.Radius)
	})

	t.Run("radius without location", func(t *testing.T) {
		_, ok := entities.DealFilter{Radius: 5}.Query()
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := entities.DealFilter{}.Query()
		assert.False(t, ok)
	})
}

func TestDealFilter_DecodeShortPosition(t *testing.T) {
	var f entities.DealFilter
	require.NoError(t, json.Unmarshal([]byte(`{"radius":5,"location":{"lat":48.1,"lon":11.5}}`), &f))

	require.NotNil(t, f.Location)
	assert.Equal(t, 48.1, f.Location.Latitude)
	assert.Equal(t, 11.5, f.Location.Longitude)
}

func TestPosition_RejectsPartial(t *testing.T) {
	var p entities.Position
	assert.Error(t, json.Unmarshal([]byte(`{"lat":48.1}`), &p))
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "Marienplatz 1, 80331 München", entities.FormatAddress("Marienplatz", "1", "80331", "München"))
	assert.Equal(t, "80331 München", entities.FormatAddress("", "", "80331", "München"))
}
