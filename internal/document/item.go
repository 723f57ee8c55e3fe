package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is the canonical invoice line. Quantity, unit price and discount are expected to
// be non-negative; negative values are not rejected and flow into the totals.
type Item struct {
	Code             string          `json:"code"`
	AuxCode          string          `json:"auxCode,omitempty"`
	Description      string          `json:"description"`
	AdditionalDetail string          `json:"additionalDetail,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Discount         decimal.Decimal `json:"discount"`
	Subsidy          decimal.Decimal `json:"subsidy"`
	IVARate          decimal.Decimal `json:"ivaRate"`
}

// Gross is quantity × unit price.
func (i Item) Gross() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Base is the taxable line amount, gross minus discount.
func (i Item) Base() decimal.Decimal {
	return i.Gross().Sub(i.Discount)
}

var (
	codeKeys        = []string{"code", "codigo", "codigoPrincipal"}
	auxCodeKeys     = []string{"auxCode", "codeAux", "codigoAuxiliar"}
	descriptionKeys = []string{"description", "descripcion"}
	detailKeys      = []string{"additionalDetail", "additional_detail", "detalleAdicional"}
	quantityKeys    = []string{"quantity", "cantidad"}
	unitPriceKeys   = []string{"unitPrice", "unit_price", "precioUnitario"}
	discountKeys    = []string{"discount", "descuento"}
	subsidyKeys     = []string{"subsidy", "subsidio"}
	rateKeys        = []string{"ivaRate", "iva_rate", "tarifa"}
)

// UnmarshalJSON accepts English and Spanish field names. For each field the first alias
// holding a non-null value wins. Numbers may be JSON numbers or numeric strings.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding item: %w", err)
	}

	var err error

	strs := []struct {
		dst  *string
		keys []string
	}{
		{&i.Code, codeKeys},
		{&i.AuxCode, auxCodeKeys},
		{&i.Description, descriptionKeys},
		{&i.AdditionalDetail, detailKeys},
	}
	for _, f := range strs {
		if *f.dst, err = pickString(raw, f.keys); err != nil {
			return err
		}
	}

	nums := []struct {
		dst  *decimal.Decimal
		keys []string
	}{
		{&i.Quantity, quantityKeys},
		{&i.UnitPrice, unitPriceKeys},
		{&i.Discount, discountKeys},
		{&i.Subsidy, subsidyKeys},
		{&i.IVARate, rateKeys},
	}
	for _, f := range nums {
		if *f.dst, err = pickDecimal(raw, f.keys); err != nil {
			return err
		}
	}

	return nil
}

func lookup(raw map[string]json.RawMessage, keys []string) (string, json.RawMessage, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}

		return k, v, true
	}

	return "", nil, false
}

func pickString(raw map[string]json.RawMessage, keys []string) (string, error) {
	key, v, ok := lookup(raw, keys)
	if !ok {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", fmt.Errorf("field %q: expected text, got %s", key, v)
	}

	return n.String(), nil
}

func pickDecimal(raw map[string]json.RawMessage, keys []string) (decimal.Decimal, error) {
	key, v, ok := lookup(raw, keys)
	if !ok {
		return decimal.Zero, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return decimal.Zero, fmt.Errorf("field %q: expected number, got %s", key, v)
		}

		s = n.String()
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", key, err)
	}

	return d, nil
}
