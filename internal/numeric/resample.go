package numeric

import (
	"fmt"
	"math/rand"
)

// Bootstrap draws n indices from [0,n) with replacement.
func Bootstrap(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

// KFoldTrainSets shuffles [0,n) and splits it into k folds, returning for
// each fold the complementary training indices. Fold sizes differ by at
// most one.
func KFoldTrainSets(rng *rand.Rand, n, k int) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("kfold requires at least 2 splits, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("kfold splits (%d) cannot exceed sample count (%d)", k, n)
	}

	perm := rng.Perm(n)

	// First n%k folds carry one extra sample.
	foldSizes := make([]int, k)
	for i := range foldSizes {
		foldSizes[i] = n / k
		if i < n%k {
			foldSizes[i]++
		}
	}

	sets := make([][]int, k)
	start := 0
	for f := 0; f < k; f++ {
		end := start + foldSizes[f]
		train := make([]int, 0, n-foldSizes[f])
		train = append(train, perm[:start]...)
		train = append(train, perm[end:]...)
		sets[f] = train
		start = end
	}
	return sets, nil
}

// ShuffleSplits returns nSplits independent random subsets of [0,n), each
// of size trainSize, drawn without replacement within a split.
func ShuffleSplits(rng *rand.Rand, n, trainSize, nSplits int) ([][]int, error) {
	if trainSize <= 0 || trainSize > n {
		return nil, fmt.Errorf("shuffle split train size %d out of range (0,%d]", trainSize, n)
	}
	sets := make([][]int, nSplits)
	for s := 0; s < nSplits; s++ {
		perm := rng.Perm(n)
		subset := make([]int, trainSize)
		copy(subset, perm[:trainSize])
		sets[s] = subset
	}
	return sets, nil
}

// SampleWithoutReplacement draws k distinct indices from [0,n).
func SampleWithoutReplacement(rng *rand.Rand, n, k int) []int {
	perm := rng.Perm(n)
	out := make([]int, k)
	copy(out, perm[:k])
	return out
}
