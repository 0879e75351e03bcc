package commands

import (
	"log/slog"

	"github.com/kaispeidel/reddit-pipeline/internal/report"
	"github.com/spf13/cobra"
)

var reportAddr string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Serve summary charts over the stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend()
		if err != nil {
			return err
		}
		defer backend.Close()

		slog.Info("serving report", "addr", reportAddr, "storage", storageKind)
		return report.StartServer(backend, reportAddr)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportAddr, "addr", ":8080", "Listen address for the report server")
	rootCmd.AddCommand(reportCmd)
}
