package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/contable/internal/importer/catalog"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

// Catalog is the inventory operation parsed rows are fed to.
type Catalog interface {
	ImportProducts(ctx context.Context, rows []inventory.ProductParams) (*inventory.ImportResult, error)
}

type Service struct {
	catalog         Catalog
	catalogImporter Importer
}

func NewService(c Catalog) *Service {
	return &Service{
		catalog:         c,
		catalogImporter: catalog.NewParser(),
	}
}

func (s *Service) Parse(format Format, r io.Reader) ([]inventory.ProductParams, error) {
	var importer Importer

	switch format {
	case FormatCatalog:
		importer = s.catalogImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}

// Import parses r and upserts the products it describes.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*inventory.ImportResult, error) {
	rows, err := s.Parse(format, r)
	if err != nil {
		return nil, err
	}

	return s.catalog.ImportProducts(ctx, rows)
}
