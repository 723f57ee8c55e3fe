// Package accesskey builds and verifies the 49-digit clave de acceso embedded in every
// electronic tax document.
//
// Two check-digit schemes are in use and they are not interchangeable: the alternating
// scheme (weights 2,1,2,1... from the left, digit-sum reduction) used when an invoice is
// authorized, and the modulo-11 scheme (weights 2..7 cycling from the right) used by the
// XML document builder. The same 48-digit base yields different check digits under each.
package accesskey

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	// Length is the length of a complete access key.
	Length = 49
	// BaseLength is the length of the key without its check digit.
	BaseLength = 48

	DocTypeInvoice = "01"
	EmissionNormal = "1"
)

var (
	ErrInvalidBase  = errors.New("access key base must be numeric")
	ErrFieldTooLong = errors.New("access key field exceeds its width")
)

// Source draws the random numeric filler. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// RandomNumericCode returns an 8-digit zero-padded random code. A nil src uses the
// process-wide generator.
func RandomNumericCode(src Source) string {
	if src == nil {
		src = globalSource{}
	}

	return fmt.Sprintf("%08d", src.IntN(100_000_000))
}

// Fields are the components of a key in concatenation order. Shorter values are
// zero-padded on the left to their fixed width.
type Fields struct {
	Date          string // 8 digits
	DocType       string // 2
	RUC           string // 13
	Environment   string // 1
	Establishment string // 3
	PointOfSale   string // 3
	Sequential    string // 9
	NumericCode   string // 8
	Emission      string // 1
}

// Base concatenates the fields into the 48-digit base.
func (f Fields) Base() (string, error) {
	parts := []struct {
		name  string
		value string
		width int
	}{
		{"date", f.Date, 8},
		{"doc type", f.DocType, 2},
		{"ruc", f.RUC, 13},
		{"environment", f.Environment, 1},
		{"establishment", f.Establishment, 3},
		{"point of sale", f.PointOfSale, 3},
		{"sequential", f.Sequential, 9},
		{"numeric code", f.NumericCode, 8},
		{"emission", f.Emission, 1},
	}

	var sb strings.Builder

	sb.Grow(BaseLength)

	for _, p := range parts {
		if len(p.value) > p.width {
			return "", fmt.Errorf("%w: %s %q (max %d)", ErrFieldTooLong, p.name, p.value, p.width)
		}

		sb.WriteString(PadLeft(p.value, p.width))
	}

	base := sb.String()
	if !isDigits(base) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBase, base)
	}

	return base, nil
}

// AlternatingCheckDigit computes the check digit used at authorization time. Each digit
// is weighted 2,1,2,1... from the left; two-digit products are reduced to the sum of
// their digits; the remainder r of the total modulo 11 gives r when r < 2, else 11 - r.
func AlternatingCheckDigit(base string) (int, error) {
	if base == "" || !isDigits(base) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBase, base)
	}

	sum := 0

	for i := range len(base) {
		weight := 2
		if i%2 == 1 {
			weight = 1
		}

		product := int(base[i]-'0') * weight
		if product >= 10 {
			product = product/10 + product%10
		}

		sum += product
	}

	remainder := sum % 11
	if remainder < 2 {
		return remainder, nil
	}

	return 11 - remainder, nil
}

// Modulo11CheckDigit computes the check digit used by the XML document builder. Digits
// are weighted from the last to the first with coefficients cycling through 2..7; the
// verifier is 11 minus the remainder modulo 11, with 11 mapped to 0 and 10 mapped to 1.
func Modulo11CheckDigit(base string) (int, error) {
	if base == "" || !isDigits(base) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBase, base)
	}

	coefficients := [6]int{2, 3, 4, 5, 6, 7}

	sum := 0
	idx := 0

	for i := len(base) - 1; i >= 0; i-- {
		sum += int(base[i]-'0') * coefficients[idx]
		idx = (idx + 1) % len(coefficients)
	}

	verifier := 11 - sum%11

	switch verifier {
	case 11:
		return 0, nil
	case 10:
		return 1, nil
	default:
		return verifier, nil
	}
}

// BuildModulo11 concatenates the fields and appends the modulo-11 check digit.
func BuildModulo11(f Fields) (string, error) {
	base, err := f.Base()
	if err != nil {
		return "", err
	}

	digit, err := Modulo11CheckDigit(base)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%d", base, digit), nil
}

// VerifyModulo11 reports whether key is a 49-digit key with a valid modulo-11 check digit.
func VerifyModulo11(key string) bool {
	return verify(key, Modulo11CheckDigit)
}

// Environment is the company's SRI environment.
type Environment string

const (
	EnvironmentTesting    Environment = "testing"
	EnvironmentProduction Environment = "production"
)

// Params carry the invoice metadata used by the authorization-time key.
type Params struct {
	IssueDate     time.Time
	DocType       string
	RUC           string
	Environment   Environment
	Establishment string
	PointOfSale   string
	Sequential    string
}

// AuthorizationEnvironmentCode maps production to "1" and anything else to "2".
func AuthorizationEnvironmentCode(env Environment) string {
	if env == EnvironmentProduction {
		return "1"
	}

	return "2"
}

// Fields normalizes the params into key fields for the given numeric code: non-digits
// are stripped from the RUC, and establishment, point of sale and sequential are
// padded then cut to 3, 3 and 9 characters.
func (p Params) Fields(numericCode string) Fields {
	docType := p.DocType
	if docType == "" {
		docType = DocTypeInvoice
	}

	return Fields{
		Date:          p.IssueDate.Format("20060102"),
		DocType:       docType,
		RUC:           PadLeft(onlyDigits(p.RUC), 13),
		Environment:   AuthorizationEnvironmentCode(p.Environment),
		Establishment: fit(p.Establishment, 3),
		PointOfSale:   fit(p.PointOfSale, 3),
		Sequential:    fit(p.Sequential, 9),
		NumericCode:   numericCode,
		Emission:      EmissionNormal,
	}
}

// BuildAlternating builds the authorization-time key with a fixed numeric code.
func BuildAlternating(p Params, numericCode string) (string, error) {
	base, err := p.Fields(numericCode).Base()
	if err != nil {
		return "", err
	}

	digit, err := AlternatingCheckDigit(base)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%d", base, digit), nil
}

// GenerateAlternating builds the authorization-time key with a random numeric code.
// The result is not reproducible; callers must store it and never regenerate it.
func GenerateAlternating(p Params, src Source) (string, error) {
	return BuildAlternating(p, RandomNumericCode(src))
}

// VerifyAlternating reports whether key is a 49-digit key with a valid alternating
// check digit.
func VerifyAlternating(key string) bool {
	return verify(key, AlternatingCheckDigit)
}

func verify(key string, checkDigit func(string) (int, error)) bool {
	if len(key) != Length || !isDigits(key) {
		return false
	}

	digit, err := checkDigit(key[:BaseLength])
	if err != nil {
		return false
	}

	return int(key[BaseLength]-'0') == digit
}

// PadLeft left-pads s with zeros up to width. Longer strings are returned unchanged.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return strings.Repeat("0", width-len(s)) + s
}

func fit(s string, width int) string {
	s = PadLeft(s, width)

	return s[:width]
}

func onlyDigits(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
