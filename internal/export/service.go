package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/contable/internal/invoice"
)

// maxWorkers bounds concurrent document rendering.
const maxWorkers = 4

// Invoices is the subset of the invoice service the exporter needs.
type Invoices interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
	XML(ctx context.Context, id uuid.UUID) ([]byte, error)
	PDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Item links an exported invoice to the files written for it.
type Item struct {
	Invoice *invoice.Invoice
	XMLPath string
	PDFPath string
}

// Service exports authorized invoices to disk.
type Service struct {
	invoices Invoices
}

func NewService(invoices Invoices) *Service {
	return &Service{invoices: invoices}
}

// Export writes the XML and PDF of every authorized invoice issued between start and end
// into outputDir. Items keep the listing order.
func (s *Service) Export(ctx context.Context, start, end *time.Time, outputDir string) ([]Item, error) {
	invoices, err := s.invoices.List(ctx, invoice.ListFilter{
		Status:    new(invoice.StatusAuthorized),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, len(invoices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, inv := range invoices {
		g.Go(func() error {
			item, err := s.write(ctx, inv, outputDir)
			if err != nil {
				return fmt.Errorf("exporting invoice %s: %w", inv.Number, err)
			}

			items[i] = item

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Service) write(ctx context.Context, inv *invoice.Invoice, dir string) (Item, error) {
	base := FileName(inv)

	xml, err := s.invoices.XML(ctx, inv.ID)
	if err != nil {
		return Item{}, fmt.Errorf("rendering xml: %w", err)
	}

	pdf, err := s.invoices.PDF(ctx, inv.ID)
	if err != nil {
		return Item{}, fmt.Errorf("rendering pdf: %w", err)
	}

	item := Item{
		Invoice: inv,
		XMLPath: filepath.Join(dir, base+".xml"),
		PDFPath: filepath.Join(dir, base+".pdf"),
	}

	if err := os.WriteFile(item.XMLPath, xml, 0o644); err != nil {
		return Item{}, fmt.Errorf("writing xml: %w", err)
	}

	if err := os.WriteFile(item.PDFPath, pdf, 0o644); err != nil {
		return Item{}, fmt.Errorf("writing pdf: %w", err)
	}

	return item, nil
}

// FileName builds the file stem for an invoice, e.g. "20240115_001-001-000000001_juan-perez".
func FileName(inv *invoice.Invoice) string {
	return fmt.Sprintf("%s_%s_%s", inv.IssueDate.Format("20060102"), inv.Number, slug.Make(inv.Client.Name))
}

// Summary creates a plain-text listing of the exported items.
func (s *Service) Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		inv := item.Invoice
		fmt.Fprintf(&sb, "* %s | %s | %s | $%s | %s\n",
			inv.IssueDate.Format("2006-01-02"),
			inv.Number,
			inv.Client.Name,
			inv.Total.StringFixed(2),
			filepath.Base(item.PDFPath),
		)
	}

	return sb.String()
}

// Total sums the invoice totals of the exported items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Invoice.Total)
	}

	return total
}
