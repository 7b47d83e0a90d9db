package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docustack/retriever/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cumulative invocation counts",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := metrics.NewStore()
	if err != nil {
		return fmt.Errorf("opening metrics store: %w", err)
	}
	defer store.Close()

	totals, err := store.AllTotals()
	if err != nil {
		return err
	}

	var sum int64
	for _, mode := range metrics.AllModes {
		fmt.Printf("%-8s %d\n", mode, totals[mode])
		sum += totals[mode]
	}
	fmt.Printf("%-8s %d\n", "total", sum)
	return nil
}
