package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/delcain/drawsync/pkg/engine"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var exportOut string

//nolint:gochecknoglobals // Cobra commands are typically global
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored draw history as CSV",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default is the CSV file next to the JSON store)")
}

func runExport(cmd *cobra.Command, _ []string) error {
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

	path, err := eng.ExportCSV(exportOut)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d draws to %s\n", eng.Stats().TotalDraws, path)

	return nil
}
