package utils

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				histo[pm.GetBucketDimension(np)]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 5000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Inverse lookup
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				bn, kMin, kMax := pm.GetBucket(k)
				mMin, mMax := pm.GetBucketRange(bn)
				assert.True(t, k >= kMin && k < kMax && kMin == mMin && kMax == mMax)
			}
			bn, _, _ := pm.GetBucket(maxIndex)
			assert.Equal(t, -1, bn)
		}
	}
	assert.Equal(t, 1, NewPartitionMap(0, 10).ParallelDegree)
}

func TestPartitionMapRun(t *testing.T) {
	var (
		pm    = NewPartitionMap(4, 103)
		count int64
		hits  = make([]int32, 103)
	)
	err := pm.Run(func(bn, kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&hits[k], 1)
		}
		atomic.AddInt64(&count, 1)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
	for _, h := range hits {
		assert.Equal(t, int32(1), h)
	}

	first, second := errors.New("first"), errors.New("second")
	err = pm.Run(func(bn, kMin, kMax int) error {
		switch bn {
		case 1:
			return first
		case 3:
			return second
		}
		return nil
	})
	assert.Equal(t, first, err)

	// Empty buckets are skipped
	count = 0
	assert.NoError(t, NewPartitionMap(8, 3).Run(func(bn, kMin, kMax int) error {
		atomic.AddInt64(&count, 1)
		return nil
	}))
	assert.Equal(t, int64(3), count)
}
