package company

import (
	"time"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/document"
)

// Company is the single issuing company profile.
type Company struct {
	Name                 string                `json:"name"`
	TradeName            string                `json:"tradeName,omitempty"`
	RUC                  string                `json:"ruc"`
	Address              string                `json:"address"`
	BranchAddress        string                `json:"branchAddress,omitempty"`
	Phone                string                `json:"phone,omitempty"`
	Email                string                `json:"email,omitempty"`
	Website              string                `json:"website,omitempty"`
	Establishment        string                `json:"establishment"`
	PointOfSale          string                `json:"pointOfSale"`
	AccountingPeriod     string                `json:"accountingPeriod,omitempty"`
	Environment          accesskey.Environment `json:"environment"`
	AccountingObligation bool                  `json:"accountingObligation"`
	SpecialContributor   string                `json:"specialContributor,omitempty"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// Issuer converts the profile into the issuer block of a fiscal document.
func (c *Company) Issuer() *document.Issuer {
	return &document.Issuer{
		Name:                 c.Name,
		TradeName:            c.TradeName,
		RUC:                  c.RUC,
		Address:              c.Address,
		Establishment:        c.Establishment,
		PointOfSale:          c.PointOfSale,
		Environment:          c.Environment,
		AccountingObligation: c.AccountingObligation,
	}
}

// Series is the EEE-PPP prefix of invoice numbers issued by the company.
func (c *Company) Series() string {
	return c.Establishment + "-" + c.PointOfSale
}
