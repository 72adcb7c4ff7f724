package bitblock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var mc BasicMetricsCollector

	mc.RecordRehash(3, 7, true, nil)
	mc.RecordRehash(7, 13, true, nil)
	mc.RecordRehash(13, 7, false, nil)
	mc.RecordRehash(13, 31, true, ErrMemoryLimitExceeded)
	mc.RecordEviction()
	mc.RecordIndexBuild(10, 2*time.Millisecond, nil)
	mc.RecordIndexBuild(20, 4*time.Millisecond, errors.New("x"))

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.Grows)
	assert.Equal(t, int64(1), stats.Shrinks)
	assert.Equal(t, int64(1), stats.RefusedGrows)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, int64(2), stats.BuildCount)
	assert.Equal(t, int64(1), stats.BuildErrors)
	assert.Equal(t, int64(30), stats.BuildKeys)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.BuildAvgNanos)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	var mc BasicMetricsCollector
	assert.Equal(t, BasicMetricsStats{}, mc.GetStats())
}
