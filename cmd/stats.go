package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/engine"
	"github.com/delcain/drawsync/pkg/index"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var statsNumbers bool

//nolint:gochecknoglobals // Cobra commands are typically global
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a descriptive summary of the stored draw history",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsNumbers, "numbers", false, "include the per-number frequency and gap table")
}

func runStats(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	log, err := newLogger(config.Logging)
	if err != nil {
		return err
	}

	eng, err := engine.New(log, &config.Engine)
	if err != nil {
		return fmt.Errorf("failed to load draw store: %w", err)
	}

	stats := eng.Stats()

	if stats.TotalDraws == 0 {
		fmt.Println("No draws stored yet. Run `drawsync sync` first.")

		return nil
	}

	fmt.Printf("Total draws:      %d\n", stats.TotalDraws)
	fmt.Printf("First draw:       #%d (%s)\n", stats.FirstDraw, stats.FirstDate.Format("2006-01-02"))
	fmt.Printf("Latest draw:      #%d (%s)\n", stats.LatestDraw, stats.LatestDate.Format("2006-01-02"))
	fmt.Printf("Numbers drawn:    %d\n", stats.NumbersDrawn)
	fmt.Printf("Distinct numbers: %d of %d\n", stats.DistinctNumbers, draw.MaxNumber)

	if !statsNumbers {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nNUMBER\tOCCURRENCES\tDRAWS SINCE LAST SEEN")

	for n := 1; n <= draw.MaxNumber; n++ {
		gap := eng.DrawsSinceLastSeen(n)

		gapText := "never drawn"
		if gap != index.NeverDrawn {
			gapText = fmt.Sprintf("%d", gap)
		}

		fmt.Fprintf(w, "%d\t%d\t%s\n", n, eng.OccurrenceCount(n), gapText)
	}

	return w.Flush()
}
