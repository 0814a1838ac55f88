package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwansa/kwacha/internal/service"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all invoices to CSV",
	Long: `Export every tracked invoice to a CSV file named
invoice-tracking-YYYY-MM-DD.csv in the configured output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		records, err := appInstance.Tracking.List(ctx, service.Filter{})
		if err != nil {
			return fmt.Errorf("failed to load invoices: %w", err)
		}

		csv, err := appInstance.Export.EncodeCSV(records)
		if err != nil {
			if errors.Is(err, service.ErrNoRecords) {
				fmt.Println("No invoices to export")
				return nil
			}
			return fmt.Errorf("failed to encode CSV: %w", err)
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join(appInstance.Config.Invoice.OutputDir, appInstance.Export.Filename())
		}

		if err := os.WriteFile(out, []byte(csv), 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		fmt.Printf("✓ Exported %d invoice(s) to %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "Output path (defaults to the configured output dir)")
}
