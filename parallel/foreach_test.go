package parallel

import "sync/atomic"
import "testing"

func TestForEachVisitsAll(t *testing.T) {
	var seen [100]atomic.Int32
	ForEach(len(seen), 7, func(i int) {
		seen[i].Add(1)
	})
	for i := range seen {
		if seen[i].Load() != 1 {
			t.Errorf("index %d visited %d times", i, seen[i].Load())
		}
	}
	ForEach(0, 3, func(int) { t.Errorf("body called for empty loop") })
}

func TestForRangeCoversDisjointChunks(t *testing.T) {
	for _, tc := range []struct{ length, limit int }{
		{1, 4}, {7, 4}, {64, 4}, {1000, 3}, {33, 0}, {100, 100},
	} {
		var seen = make([]int32, tc.length)
		ForRange(tc.length, tc.limit, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, v := range seen {
			if v != 1 {
				t.Errorf("length %d limit %d: index %d visited %d times", tc.length, tc.limit, i, v)
			}
		}
	}
}
