package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/haskel/alpool/internal/active"
	"github.com/haskel/alpool/internal/dataset"
	"github.com/haskel/alpool/internal/numeric"
	"github.com/haskel/alpool/internal/storage"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report on a saved experiment run",
	Long: `Render the metric tables of a saved run snapshot, alongside a summary
of how the selected training set covers the pool's principal components.
When the baseline table is present it is shown for comparison.`,
	Example: `  alpool report --data-dir data
  alpool report --data-dir data --csv results.csv`,
	RunE: runReport,
}

var reportCSV string

func init() {
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "also export the metric tables as CSV")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	store := storage.New(cfg.Output.DataDir, log)
	snap, err := store.Load()
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot found at %s; run an experiment first", store.Path())
	}

	fmt.Println(renderResults("Active learning", snap.Results))
	if len(snap.Baseline) > 0 {
		fmt.Println(renderResults("Random baseline", snap.Baseline))
	}
	if len(snap.PendingQueries) > 0 {
		for _, q := range snap.PendingQueries {
			fmt.Println(tableMutedStyle.Render(
				fmt.Sprintf("pending %q: %d labels owed", q.Tag, len(q.Indices))))
		}
	}

	if summary, err := coverageSummary(snap); err != nil {
		log.Warn("coverage summary unavailable", "error", err)
	} else {
		fmt.Println(summary)
	}

	if reportCSV != "" {
		if err := exportCSV(reportCSV, snap); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
		log.Info("exported metric tables", "path", reportCSV)
	}
	return nil
}

// coverageSummary projects the pool onto its first two principal
// components and reports the PC1 and label distribution of each subset
// of the pool. A training set whose PC1 spread stays close to the
// pool's is still covering it; a shrinking spread means the picks
// cluster.
func coverageSummary(snap *storage.Snapshot) (string, error) {
	if len(snap.TrainIndices) == 0 {
		return "", fmt.Errorf("no committed training set")
	}
	ds, err := dataset.LoadCSV(snap.Dataset, snap.Targets)
	if err != nil {
		return "", err
	}

	projected, err := numeric.ProjectPCA(ds.X, 2)
	if err != nil {
		return "", err
	}

	all := make([]int, ds.Size())
	for i := range all {
		all[i] = i
	}

	out := tableTitleStyle.Render("Pool coverage (PC1 / first target, mean and std)") + "\n"
	out += tableHeaderStyle.Render(fmt.Sprintf("  %-14s %6s %9s %9s %9s %9s",
		"subset", "n", "pc1 mean", "pc1 std", "y mean", "y std")) + "\n"
	out += subsetLine(projected, ds, "pool", all)
	out += subsetLine(projected, ds, "train", snap.TrainIndices)
	out += subsetLine(projected, ds, "test", snap.TestIndices)
	out += subsetLine(projected, ds, "unlabeled", unlabeledOf(snap, ds.Size()))
	for _, q := range snap.PendingQueries {
		out += subsetLine(projected, ds, q.Tag, q.Indices)
	}
	return out, nil
}

func subsetLine(projected *mat.Dense, ds *dataset.Dataset, name string, indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	pc1 := make([]float64, len(indices))
	y := make([]float64, len(indices))
	for i, idx := range indices {
		pc1[i] = projected.At(idx, 0)
		y[i] = ds.Y[idx][0]
	}
	pcMean, pcStd := numeric.MeanStd(pc1)
	yMean, yStd := numeric.MeanStd(y)
	return tableCellStyle.Render(fmt.Sprintf("  %-14s %6d %9.3f %9.3f %9.3f %9.3f",
		name, len(indices), pcMean, pcStd, yMean, yStd)) + "\n"
}

// unlabeledOf reconstructs the unlabeled set as the complement of every
// index the snapshot accounts for.
func unlabeledOf(snap *storage.Snapshot, poolSize int) []int {
	taken := make(map[int]bool, poolSize)
	for _, idx := range snap.TrainIndices {
		taken[idx] = true
	}
	for _, idx := range snap.TestIndices {
		taken[idx] = true
	}
	for _, idx := range snap.IgnoredIndices {
		taken[idx] = true
	}
	for _, q := range snap.PendingQueries {
		for _, idx := range q.Indices {
			taken[idx] = true
		}
	}
	unlabeled := make([]int, 0, poolSize-len(taken))
	for i := 0; i < poolSize; i++ {
		if !taken[i] {
			unlabeled = append(unlabeled, i)
		}
	}
	return unlabeled
}

func exportCSV(path string, snap *storage.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{"table"}, resultColumns...)
	if err := w.Write(header); err != nil {
		return err
	}
	writeRows := func(name string, rows []active.RoundResult) error {
		for _, r := range rows {
			record := append([]string{name}, csvRowCells(r)...)
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeRows("results", snap.Results); err != nil {
		return err
	}
	if err := writeRows("baseline", snap.Baseline); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func csvRowCells(r active.RoundResult) []string {
	return []string{
		strconv.Itoa(r.Round),
		strconv.Itoa(r.NumTraining),
		strconv.Itoa(r.NumTest),
		strconv.FormatFloat(r.MAE, 'g', -1, 64),
		strconv.FormatFloat(r.MAEStd, 'g', -1, 64),
		strconv.FormatFloat(r.RMSE, 'g', -1, 64),
		strconv.FormatFloat(r.RMSEStd, 'g', -1, 64),
		strconv.FormatFloat(r.R2, 'g', -1, 64),
		strconv.FormatFloat(r.R2Std, 'g', -1, 64),
	}
}
