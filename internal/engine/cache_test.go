package engine

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

func result(overall float64) Result {
	return Result{Index: domain.CompositeIndex{Overall: overall}}
}

func TestResultCache_PutGet(t *testing.T) {
	c := newResultCache(3)

	c.put("a", result(1))
	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, got.Index.Overall)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newResultCache(2)

	c.put("a", result(1))
	c.put("b", result(2))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", result(3))

	_, ok = c.get("b")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.len())
}

func TestResultCache_UpdateExistingKey(t *testing.T) {
	c := newResultCache(2)

	c.put("a", result(1))
	c.put("a", result(9))

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 9.0, got.Index.Overall)
	assert.Equal(t, 1, c.len())
}

func TestCacheKey_HourBucket(t *testing.T) {
	loc := domain.Location{-20.2, 57.5}

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 14, 12, 10, 0, 0, time.UTC)))
	defer domain.SetClock(nil)
	early := cacheKey(domain.DomainFloodRisk, loc)

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 14, 12, 55, 0, 0, time.UTC)))
	sameHour := cacheKey(domain.DomainFloodRisk, loc)
	assert.Equal(t, early, sameHour, "same hour bucket shares a key")

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 14, 13, 5, 0, 0, time.UTC)))
	nextHour := cacheKey(domain.DomainFloodRisk, loc)
	assert.NotEqual(t, early, nextHour, "next hour gets a fresh key")

	otherDomain := cacheKey(domain.DomainStormSurge, loc)
	assert.NotEqual(t, nextHour, otherDomain, "keys are domain-scoped")

	otherLoc := cacheKey(domain.DomainStormSurge, domain.Location{-20.3, 57.5})
	assert.NotEqual(t, otherDomain, otherLoc, "keys are location-scoped")
}
