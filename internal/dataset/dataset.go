package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Dataset is a fully labeled candidate pool: the feature matrix drives
// selection, the labels act as the oracle during simulated runs.
type Dataset struct {
	X *mat.Dense
	Y [][]float64

	FeatureNames []string
	TargetNames  []string
}

// Size returns the number of candidates.
func (d *Dataset) Size() int {
	rows, _ := d.X.Dims()
	return rows
}

// Labels returns the ground-truth labels for the given pool indices.
func (d *Dataset) Labels(indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = d.Y[idx]
	}
	return out
}

// LoadCSV reads a headered CSV file, splitting columns into features and
// the named target columns. Every cell must parse as a float.
func LoadCSV(path string, targets []string) (*Dataset, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("at least one target column is required")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	targetSet := make(map[string]bool, len(targets))
	for _, name := range targets {
		targetSet[name] = true
	}

	var featureCols, targetCols []int
	var featureNames []string
	targetNames := make([]string, 0, len(targets))
	for col, name := range header {
		if targetSet[name] {
			targetCols = append(targetCols, col)
			targetNames = append(targetNames, name)
			delete(targetSet, name)
		} else {
			featureCols = append(featureCols, col)
			featureNames = append(featureNames, name)
		}
	}
	if len(targetSet) != 0 {
		missing := make([]string, 0, len(targetSet))
		for name := range targetSet {
			missing = append(missing, name)
		}
		return nil, fmt.Errorf("target columns not found in header: %v", missing)
	}
	if len(featureCols) == 0 {
		return nil, fmt.Errorf("no feature columns left after removing targets")
	}

	var features []float64
	var labels [][]float64
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}
		line++
		for _, col := range featureCols {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[col], err)
			}
			features = append(features, v)
		}
		label := make([]float64, len(targetCols))
		for i, col := range targetCols {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[col], err)
			}
			label[i] = v
		}
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("dataset has no data rows")
	}

	return &Dataset{
		X:            mat.NewDense(len(labels), len(featureCols), features),
		Y:            labels,
		FeatureNames: featureNames,
		TargetNames:  targetNames,
	}, nil
}
