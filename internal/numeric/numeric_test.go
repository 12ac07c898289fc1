package numeric

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStandardScaler_RoundTrip(t *testing.T) {
	m := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	s := NewStandardScaler()
	scaled := s.FitTransform(m)

	// Columns should have zero mean after scaling.
	for j := 0; j < 2; j++ {
		var sum float64
		for i := 0; i < 4; i++ {
			sum += scaled.At(i, j)
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("column %d mean not zero after scaling: %f", j, sum/4)
		}
	}

	back := s.InverseTransform(scaled)
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(back.At(i, j)-m.At(i, j)) > 1e-9 {
				t.Errorf("inverse transform mismatch at (%d,%d): %f != %f",
					i, j, back.At(i, j), m.At(i, j))
			}
		}
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	m := mat.NewDense(3, 1, []float64{5, 5, 5})

	s := NewStandardScaler()
	scaled := s.FitTransform(m)

	for i := 0; i < 3; i++ {
		if scaled.At(i, 0) != 0 {
			t.Errorf("constant column should scale to zero, got %f", scaled.At(i, 0))
		}
	}
}

func TestBootstrap_SizeAndRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	idx := Bootstrap(rng, 50)
	if len(idx) != 50 {
		t.Fatalf("expected 50 indices, got %d", len(idx))
	}
	for _, i := range idx {
		if i < 0 || i >= 50 {
			t.Errorf("index %d out of range", i)
		}
	}
}

func TestKFoldTrainSets(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sets, err := KFoldTrainSets(rng, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 5 {
		t.Fatalf("expected 5 train sets, got %d", len(sets))
	}
	for f, set := range sets {
		if len(set) != 8 {
			t.Errorf("fold %d: expected 8 train indices, got %d", f, len(set))
		}
	}

	// Held-out points across folds must cover [0,10) exactly once.
	heldOut := make(map[int]int)
	for _, set := range sets {
		inTrain := make(map[int]bool, len(set))
		for _, i := range set {
			inTrain[i] = true
		}
		for i := 0; i < 10; i++ {
			if !inTrain[i] {
				heldOut[i]++
			}
		}
	}
	for i := 0; i < 10; i++ {
		if heldOut[i] != 1 {
			t.Errorf("index %d held out %d times, want 1", i, heldOut[i])
		}
	}
}

func TestKFoldTrainSets_TooFewSplits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := KFoldTrainSets(rng, 10, 1); err == nil {
		t.Error("expected error for k=1")
	}
}

func TestShuffleSplits_Distinct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sets, err := ShuffleSplits(rng, 10, 9, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 4 {
		t.Fatalf("expected 4 splits, got %d", len(sets))
	}
	for s, set := range sets {
		seen := make(map[int]bool)
		for _, i := range set {
			if seen[i] {
				t.Errorf("split %d contains duplicate index %d", s, i)
			}
			seen[i] = true
		}
	}
}

func TestMAE_RMSE_R2(t *testing.T) {
	truth := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	pred := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	if got := MAE(truth, pred); got != 0 {
		t.Errorf("perfect MAE should be 0, got %f", got)
	}
	if got := RMSE(truth, pred); got != 0 {
		t.Errorf("perfect RMSE should be 0, got %f", got)
	}
	if got := R2(truth, pred); got != 1 {
		t.Errorf("perfect R2 should be 1, got %f", got)
	}

	off := mat.NewDense(4, 1, []float64{2, 3, 4, 5})
	if got := MAE(truth, off); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected MAE 1, got %f", got)
	}
	if got := RMSE(truth, off); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected RMSE 1, got %f", got)
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(mean-5) > 1e-9 {
		t.Errorf("expected mean 5, got %f", mean)
	}
	// Population std of this classic sequence is 2.
	if math.Abs(std-2) > 1e-9 {
		t.Errorf("expected std 2, got %f", std)
	}
}

func TestRows(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	sub := Rows(m, []int{2, 0})
	if sub.At(0, 0) != 5 || sub.At(1, 1) != 2 {
		t.Errorf("unexpected row subset: %v", mat.Formatted(sub))
	}
}

func TestProjectPCA(t *testing.T) {
	// Points along the x=y diagonal: PC1 carries all the variance.
	m := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	})
	scores, err := ProjectPCA(m, 1)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := scores.Dims()
	if rows != 4 || cols != 1 {
		t.Fatalf("expected 4x1 scores, got %dx%d", rows, cols)
	}
	// Projected points remain equally spaced.
	d1 := scores.At(1, 0) - scores.At(0, 0)
	d2 := scores.At(2, 0) - scores.At(1, 0)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("expected equal spacing on PC1, got %f vs %f", d1, d2)
	}
}
