package utils

import (
	"sync"
)

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // [begin, end) of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := range pm.Partitions {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// Split1D returns the range of bucket threadNum; the first MaxIndex%ParallelDegree
// buckets carry one extra index
func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		size  = pm.MaxIndex / pm.ParallelDegree
		extra = pm.MaxIndex % pm.ParallelDegree
	)
	bucket[0] = threadNum*size + min(threadNum, extra)
	bucket[1] = bucket[0] + size
	if threadNum < extra {
		bucket[1]++
	}
	return
}

// GetBucket finds the bucket holding index k, bucketNum is -1 when k is out of range
func (pm *PartitionMap) GetBucket(k int) (bucketNum, kMin, kMax int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1, 0, 0
	}
	bucketNum = pm.ParallelDegree * k / pm.MaxIndex
	for {
		kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
		switch {
		case k < kMin:
			bucketNum--
		case k >= kMax:
			bucketNum++
		default:
			return
		}
	}
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bucketNum int) int {
	if bucketNum == -1 {
		return pm.MaxIndex
	}
	kMin, kMax := pm.GetBucketRange(bucketNum)
	return kMax - kMin
}

// Run calls fn for every non-empty bucket on its own goroutine and returns
// the error of the lowest numbered failing bucket
func (pm *PartitionMap) Run(fn func(bucketNum, kMin, kMax int) error) error {
	var (
		wg   sync.WaitGroup
		errs = make([]error, pm.ParallelDegree)
	)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		if kMax == kMin {
			continue
		}
		wg.Add(1)
		go func(bn, kMin, kMax int) {
			defer wg.Done()
			errs[bn] = fn(bn, kMin, kMax)
		}(bn, kMin, kMax)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
