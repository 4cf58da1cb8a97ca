package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/parttracker/backend-go/internal/config"
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildForecastKeyDeterministic(t *testing.T) {
	filter := domain.ForecastFilter{Site: "S1", PartNumber: "P1", HorizonMonths: 3}

	assert.Equal(t, buildForecastKey(filter), buildForecastKey(filter))
	assert.True(t, strings.HasPrefix(buildForecastKey(filter), forecastKeyPrefix+":"))
}

func TestBuildForecastKeyDiscriminates(t *testing.T) {
	base := domain.ForecastFilter{Site: "S1"}

	variants := []domain.ForecastFilter{
		{Site: "S2"},
		{Site: "S1", PartNumber: "P1"},
		{Site: "S1", SupplierCode: "SUP1"},
		{Site: "S1", HorizonMonths: 6},
	}
	for _, v := range variants {
		assert.NotEqual(t, buildForecastKey(base), buildForecastKey(v), "%+v", v)
	}
}

func TestNewForecastCacheDisabled(t *testing.T) {
	c, err := NewForecastCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	// The disabled cache is a transparent miss.
	rows, hit, err := c.Get(context.Background(), domain.ForecastFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, rows)
	assert.NoError(t, c.Set(context.Background(), domain.ForecastFilter{}, nil))
	assert.NoError(t, c.InvalidateAll(context.Background()))
}
