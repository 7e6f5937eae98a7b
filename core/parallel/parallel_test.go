package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkers(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), Workers(0))
	assert.Equal(t, runtime.NumCPU(), Workers(-1))
	assert.Equal(t, 3, Workers(3))
}

func TestParallelizeN_CoversEveryIndexOnce(t *testing.T) {
	for _, tc := range []struct{ items, workers int }{
		{1, 4}, {7, 3}, {100, 8}, {64, 1}, {5, -1},
	} {
		hits := make([]int32, tc.items)
		ParallelizeN(tc.items, tc.workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "items=%d workers=%d index=%d", tc.items, tc.workers, i)
		}
	}
}

func TestParallelizeN_RespectsWorkerCount(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	ParallelizeN(10, 2, func(start, end int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	assert.Equal(t, 2, calls)
}

func TestParallelize_Empty(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) { called = true })
	assert.False(t, called)
}

func TestParallelizeWithThreshold(t *testing.T) {
	var ranges [][2]int
	ParallelizeWithThreshold(5, 10, 4, func(start, end int) {
		ranges = append(ranges, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{0, 5}}, ranges)

	var total int64
	ParallelizeWithThreshold(50, 10, 4, func(start, end int) {
		atomic.AddInt64(&total, int64(end-start))
	})
	assert.Equal(t, int64(50), total)
}
