package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwansa/kwacha/internal/domain"
	"github.com/mwansa/kwacha/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage tracked invoices",
	Long:  `List, inspect, and manage tracked invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		filter := service.Filter{}
		if cmd.Flags().Changed("status") {
			filter.Status, _ = cmd.Flags().GetString("status")
		}
		if cmd.Flags().Changed("client") {
			filter.Client, _ = cmd.Flags().GetString("client")
		}
		if cmd.Flags().Changed("window") {
			w, _ := cmd.Flags().GetString("window")
			filter.Window = service.DateWindow(w)
		}

		records, err := appInstance.Tracking.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		now := time.Now()
		currency := appInstance.Config.Invoice.Currency

		// Print table header
		fmt.Printf("%-16s %-24s %-12s %-12s %-14s %-10s\n", "Number", "Client", "Date", "Due", "Amount", "Status")
		fmt.Println("--------------------------------------------------------------------------------------------")

		for _, r := range records {
			fmt.Printf("%-16s %-24s %-12s %-12s %-14s %-10s\n",
				r.InvoiceNumber,
				truncate(r.ClientName, 24),
				r.InvoiceDate,
				r.DueDate,
				formatAmount(currency, r.Subtotal()),
				r.DisplayStatus(now),
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(records))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		record, err := appInstance.Tracking.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if record == nil {
			return fmt.Errorf("invoice not found: %s", args[0])
		}

		currency := appInstance.Config.Invoice.Currency

		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Invoice: %s\n", record.InvoiceNumber)
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("From: %s <%s>\n", record.CompanyName, record.CompanyEmail)
		fmt.Printf("Client: %s\n", record.ClientName)
		if record.ClientEmail != "" {
			fmt.Printf("Client Email: %s\n", record.ClientEmail)
		}
		fmt.Printf("Date: %s   Due: %s\n", record.InvoiceDate, record.DueDate)
		fmt.Printf("Status: %s\n", record.DisplayStatus(time.Now()))
		fmt.Printf("Payment: %s\n", record.PaymentMethod.Display())
		if record.PaidDate != "" {
			fmt.Printf("Paid: %s\n", record.PaidDate)
		}
		fmt.Println()

		if len(record.Items) > 0 {
			fmt.Println("Line Items:")
			fmt.Println(strings.Repeat("-", 80))
			fmt.Printf("%-44s %8s %12s %12s\n", "Description", "Qty", "Price", "Total")
			fmt.Println(strings.Repeat("-", 80))
			for _, item := range record.Items {
				fmt.Printf("%-44s %8g %12.2f %12.2f\n",
					truncate(item.Description, 44),
					item.Quantity,
					item.Price,
					item.Amount(),
				)
			}
			fmt.Println(strings.Repeat("-", 80))
		}

		fmt.Printf("\n")
		fmt.Printf("Subtotal: %s %.2f\n", currency, record.Subtotal())
		fmt.Printf("Tax: %s %.2f\n", currency, record.Tax())
		fmt.Printf("Total: %s %.2f\n", currency, record.Total())
		if record.Notes != "" {
			fmt.Printf("\nNotes: %s\n", record.Notes)
		}
		fmt.Println(strings.Repeat("=", 80))

		return nil
	},
}

var invoicesStatusCmd = &cobra.Command{
	Use:   "status [number] [draft|sent|paid]",
	Short: "Set an invoice's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		status := domain.InvoiceStatus(args[1])
		switch status {
		case domain.StatusDraft, domain.StatusSent, domain.StatusPaid:
		default:
			return fmt.Errorf("unknown status: %s (expected draft, sent, or paid)", args[1])
		}

		if err := appInstance.Tracking.SetStatus(ctx, args[0], status); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		fmt.Printf("✓ Invoice %s marked as %s\n", args[0], status)
		return nil
	},
}

var invoicesPaidCmd = &cobra.Command{
	Use:   "paid [number]",
	Short: "Mark an invoice as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.Tracking.SetStatus(ctx, args[0], domain.StatusPaid); err != nil {
			return fmt.Errorf("failed to mark invoice as paid: %w", err)
		}

		fmt.Printf("✓ Invoice %s marked as paid\n", args[0])
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [number]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.Tracking.Remove(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Printf("✓ Invoice %s deleted\n", args[0])
		return nil
	},
}

var invoicesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show invoice counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		stats, err := appInstance.Tracking.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		fmt.Printf("Total Invoices: %d\n", stats.Total)
		fmt.Printf("Paid:           %d\n", stats.Paid)
		fmt.Printf("Pending:        %d\n", stats.Pending)
		fmt.Printf("Overdue:        %d\n", stats.Overdue)
		return nil
	},
}

var invoicesPDFCmd = &cobra.Command{
	Use:   "pdf [number]",
	Short: "Write the invoice PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		record, err := appInstance.Tracking.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if record == nil {
			return fmt.Errorf("invoice not found: %s", args[0])
		}

		out, _ := cmd.Flags().GetString("out")
		return writeInvoicePDF(record, out)
	},
}

var invoicesReceiptCmd = &cobra.Command{
	Use:   "receipt [number]",
	Short: "Write the payment receipt PDF for a paid invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		record, err := appInstance.Tracking.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if record == nil {
			return fmt.Errorf("invoice not found: %s", args[0])
		}
		if record.Status != domain.StatusPaid {
			return fmt.Errorf("invoice %s is not paid yet", args[0])
		}

		data, err := appInstance.Renderer.ReceiptPDF(record, time.Now())
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			name := fmt.Sprintf("receipt-%s.pdf", domain.ReceiptNumber(record.InvoiceNumber))
			out = filepath.Join(appInstance.Config.Invoice.OutputDir, name)
		}

		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write receipt: %w", err)
		}

		fmt.Printf("✓ Receipt written to %s\n", out)
		return nil
	},
}

// writeInvoicePDF renders the record and writes it to out, defaulting to the
// configured output directory
func writeInvoicePDF(record *domain.InvoiceRecord, out string) error {
	data, err := appInstance.Renderer.InvoicePDF(record)
	if err != nil {
		return err
	}

	if out == "" {
		name := fmt.Sprintf("invoice-%s.pdf", record.InvoiceNumber)
		out = filepath.Join(appInstance.Config.Invoice.OutputDir, name)
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Printf("✓ PDF written to %s\n", out)
	return nil
}

// formatAmount renders an amount with its currency label as one table cell
func formatAmount(currency string, v float64) string {
	return fmt.Sprintf("%s %.2f", currency, v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesStatusCmd)
	invoicesCmd.AddCommand(invoicesPaidCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesStatsCmd)
	invoicesCmd.AddCommand(invoicesPDFCmd)
	invoicesCmd.AddCommand(invoicesReceiptCmd)

	// List flags
	invoicesListCmd.Flags().String("status", "", "Filter by status (draft, sent, paid)")
	invoicesListCmd.Flags().String("client", "", "Filter by client name (case-insensitive substring)")
	invoicesListCmd.Flags().String("window", "", "Filter by invoice date (today, week, month, year)")

	// PDF flags
	invoicesPDFCmd.Flags().String("out", "", "Output path (defaults to the configured output dir)")
	invoicesReceiptCmd.Flags().String("out", "", "Output path (defaults to the configured output dir)")
}
