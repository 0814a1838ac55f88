package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwansa/kwacha/internal/domain"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create or update an invoice",
	Long: `Create a new invoice, or update an existing one by passing its number.

Company details default to the values in your config file. Line items are
given as repeated --item flags in "description:qty:price" form:

  kwacha generate --client "ACME Mining" --client-address "Kitwe" \
    --client-email accounts@acme.co.zm \
    --item "Safety boots:2:350" --item "Helmets:10:120"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := appInstance.Config

		number, _ := cmd.Flags().GetString("number")
		if number == "" {
			number = domain.NewInvoiceNumber(cfg.Invoice.NumberPrefix, time.Now())
		}

		patch := domain.RecordPatch{InvoiceNumber: number}

		// Company block: flag overrides config, config fills the rest on create
		setField(cmd, "company", &patch.CompanyName, cfg.Company.Name)
		setField(cmd, "company-address", &patch.CompanyAddress, cfg.Company.Address)
		setField(cmd, "company-email", &patch.CompanyEmail, cfg.Company.Email)
		setField(cmd, "company-phone", &patch.CompanyPhone, cfg.Company.Phone)

		setField(cmd, "client", &patch.ClientName, "")
		setField(cmd, "client-address", &patch.ClientAddress, "")
		setField(cmd, "client-email", &patch.ClientEmail, "")
		setField(cmd, "notes", &patch.Notes, "")

		// Dates default to today and today + the configured due window
		invoiceDate := time.Now().Format(domain.DateLayout)
		dueDate := time.Now().AddDate(0, 0, cfg.Invoice.DefaultDueDays).Format(domain.DateLayout)
		setField(cmd, "date", &patch.InvoiceDate, invoiceDate)
		setField(cmd, "due", &patch.DueDate, dueDate)

		if cmd.Flags().Changed("payment") {
			s, _ := cmd.Flags().GetString("payment")
			pm := domain.PaymentMethod(s)
			if !pm.Valid() {
				return fmt.Errorf("unknown payment method: %s", s)
			}
			patch.PaymentMethod = &pm
		}

		if cmd.Flags().Changed("item") {
			specs, _ := cmd.Flags().GetStringArray("item")
			items, err := parseItems(specs)
			if err != nil {
				return err
			}
			patch.Items = items
		}

		if cmd.Flags().Changed("logo") {
			path, _ := cmd.Flags().GetString("logo")
			uri, err := imageDataURI(path)
			if err != nil {
				return fmt.Errorf("failed to load logo: %w", err)
			}
			patch.CompanyLogo = &uri
		}
		if cmd.Flags().Changed("signature") {
			path, _ := cmd.Flags().GetString("signature")
			uri, err := imageDataURI(path)
			if err != nil {
				return fmt.Errorf("failed to load signature: %w", err)
			}
			patch.Signature = &uri
		}

		records, err := appInstance.Tracking.Upsert(ctx, patch)
		if err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		var saved *domain.InvoiceRecord
		for i := range records {
			if records[i].InvoiceNumber == number {
				saved = &records[i]
				break
			}
		}
		if saved == nil {
			return fmt.Errorf("invoice %s missing after save", number)
		}

		fmt.Printf("✓ Invoice saved: %s\n", saved.InvoiceNumber)
		fmt.Printf("  Client: %s\n", saved.ClientName)
		fmt.Printf("  Due: %s\n", saved.DueDate)
		fmt.Printf("  Total: %s %.2f\n", cfg.Invoice.Currency, saved.Total())

		if cmd.Flags().Changed("pdf") {
			out, _ := cmd.Flags().GetString("pdf")
			if err := writeInvoicePDF(saved, out); err != nil {
				return err
			}
		}

		return nil
	},
}

// setField resolves a patch field from a flag, falling back to def on create.
// An empty def leaves the field nil so updates keep the stored value.
func setField(cmd *cobra.Command, flag string, dst **string, def string) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		*dst = &v
		return
	}
	if def != "" {
		*dst = &def
	}
}

// parseItems converts "description:qty:price" specs into line items
func parseItems(specs []string) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid item %q: expected description:qty:price", spec)
		}

		qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in item %q: %w", spec, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price in item %q: %w", spec, err)
		}

		items = append(items, domain.LineItem{
			Description: strings.TrimSpace(parts[0]),
			Quantity:    qty,
			Price:       price,
		})
	}
	return items, nil
}

// imageDataURI reads an image file and encodes it as a base64 data URI, the
// form the record stores for logos and signatures
func imageDataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var mime string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	default:
		return "", fmt.Errorf("unsupported image type: %s", path)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func init() {
	generateCmd.Flags().String("number", "", "Invoice number (defaults to a generated one; pass an existing number to update)")
	generateCmd.Flags().String("company", "", "Company name (defaults to config)")
	generateCmd.Flags().String("company-address", "", "Company address (defaults to config)")
	generateCmd.Flags().String("company-email", "", "Company email (defaults to config)")
	generateCmd.Flags().String("company-phone", "", "Company phone (defaults to config)")
	generateCmd.Flags().String("client", "", "Client name")
	generateCmd.Flags().String("client-address", "", "Client address")
	generateCmd.Flags().String("client-email", "", "Client email")
	generateCmd.Flags().String("date", "", "Invoice date YYYY-MM-DD (defaults to today)")
	generateCmd.Flags().String("due", "", "Due date YYYY-MM-DD (defaults to invoice date + configured days)")
	generateCmd.Flags().String("payment", "", "Payment method (cash, bank, mtn, airtel, zamtel)")
	generateCmd.Flags().StringArray("item", nil, "Line item as description:qty:price (repeatable)")
	generateCmd.Flags().String("notes", "", "Notes shown on the invoice")
	generateCmd.Flags().String("logo", "", "Path to a company logo image")
	generateCmd.Flags().String("signature", "", "Path to a signature image")
	generateCmd.Flags().String("pdf", "", "Also write the invoice PDF to this path (empty = output dir)")
}
