package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/invoice"
)

// Fake invoice source
type fakeInvoices struct {
	invoices []*invoice.Invoice
	filter   invoice.ListFilter
	failXML  uuid.UUID
}

func (f *fakeInvoices) List(_ context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	f.filter = filter

	return f.invoices, nil
}

func (f *fakeInvoices) XML(_ context.Context, id uuid.UUID) ([]byte, error) {
	if id == f.failXML {
		return nil, errors.New("boom")
	}

	return []byte("<factura>" + id.String() + "</factura>"), nil
}

func (f *fakeInvoices) PDF(_ context.Context, id uuid.UUID) ([]byte, error) {
	return []byte("%PDF " + id.String()), nil
}

func testInvoice(number, client string) *invoice.Invoice {
	return &invoice.Invoice{
		ID:        uuid.New(),
		Number:    number,
		IssueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Client:    invoice.Client{Name: client},
		Status:    invoice.StatusAuthorized,
		Total:     decimal.RequireFromString("112"),
	}
}

func TestService_Export(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "out")

	inv1 := testInvoice("001-001-000000001", "Juan Pérez")
	inv2 := testInvoice("001-001-000000002", "Ferretería Núñez S.A.")

	src := &fakeInvoices{invoices: []*invoice.Invoice{inv1, inv2}}
	service := NewService(src)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	items, err := service.Export(context.Background(), &start, &end, tmpDir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if src.filter.Status == nil || *src.filter.Status != invoice.StatusAuthorized {
		t.Errorf("expected export to list authorized invoices only")
	}

	if !src.filter.StartDate.Equal(start) || !src.filter.EndDate.Equal(end) {
		t.Errorf("expected period to be forwarded to the listing")
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].Invoice != inv1 || items[1].Invoice != inv2 {
		t.Errorf("expected items to keep listing order")
	}

	expected := "20240115_001-001-000000001_juan-perez"
	if filepath.Base(items[0].PDFPath) != expected+".pdf" {
		t.Errorf("expected %s.pdf, got %s", expected, filepath.Base(items[0].PDFPath))
	}

	if filepath.Base(items[1].XMLPath) != "20240115_001-001-000000002_ferreteria-nunez-s-a.xml" {
		t.Errorf("unexpected xml name %s", filepath.Base(items[1].XMLPath))
	}

	content, _ := os.ReadFile(items[0].XMLPath)
	if string(content) != "<factura>"+inv1.ID.String()+"</factura>" {
		t.Errorf("xml content mismatch")
	}

	content, _ = os.ReadFile(items[1].PDFPath)
	if string(content) != "%PDF "+inv2.ID.String() {
		t.Errorf("pdf content mismatch")
	}
}

func TestService_Export_RenderError(t *testing.T) {
	inv := testInvoice("001-001-000000003", "Ana")
	src := &fakeInvoices{invoices: []*invoice.Invoice{inv}, failXML: inv.ID}

	_, err := NewService(src).Export(context.Background(), nil, nil, t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "001-001-000000003") {
		t.Errorf("expected error to name the invoice, got %v", err)
	}
}

func TestService_Summary(t *testing.T) {
	s := &Service{}

	inv := testInvoice("001-001-000000001", "Juan Pérez")
	items := []Item{{Invoice: inv, PDFPath: "/tmp/x/20240115_001-001-000000001_juan-perez.pdf"}}

	body := s.Summary(items)

	want := "* 2024-01-15 | 001-001-000000001 | Juan Pérez | $112.00 | 20240115_001-001-000000001_juan-perez.pdf\n"
	if body != want {
		t.Errorf("expected %q, got %q", want, body)
	}
}

func TestTotal(t *testing.T) {
	items := []Item{
		{Invoice: testInvoice("001-001-000000001", "Juan Pérez")},
		{Invoice: testInvoice("001-001-000000002", "Ana Ruiz")},
	}

	if got := Total(items); !got.Equal(decimal.RequireFromString("224")) {
		t.Errorf("expected 224, got %s", got)
	}

	if got := Total(nil); !got.IsZero() {
		t.Errorf("expected zero for no items, got %s", got)
	}
}
