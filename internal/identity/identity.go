// Package identity validates Ecuadorian taxpayer (RUC) and national identity (Cédula)
// numbers and classifies buyer identifications for electronic documents.
package identity

// Kind is the identification type implied by the length of an identification string.
type Kind string

const (
	KindRUC           Kind = "ruc"
	KindCedula        Kind = "cedula"
	KindPassport      Kind = "passport"
	KindFinalConsumer Kind = "final_consumer"
)

const (
	rucLength    = 13
	cedulaLength = 10
)

// FinalConsumerID is the placeholder identification used for anonymous buyers.
const FinalConsumerID = "9999999999999"

// ValidateRUC reports whether value is a 13-digit RUC whose tenth digit matches the
// weighted checksum of the first nine digits.
//
// Only the juridical/third-party pattern is checked; natural-person and public-entity
// RUCs follow different rules at the tax authority, so this is an approximation.
func ValidateRUC(value string) bool {
	digits, ok := parseDigits(value, rucLength)
	if !ok {
		return false
	}

	multipliers := [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

	sum := 0
	for i, m := range multipliers {
		product := digits[i] * m
		if product >= 10 {
			product -= 9
		}

		sum += product
	}

	return (10-sum%10)%10 == digits[9]
}

// ValidateCedula reports whether value is a valid 10-digit Cédula. A 13-digit value is
// validated as a RUC.
func ValidateCedula(value string) bool {
	switch len(value) {
	case rucLength:
		return ValidateRUC(value)
	case cedulaLength:
	default:
		return false
	}

	digits, ok := parseDigits(value, cedulaLength)
	if !ok {
		return false
	}

	sum := 0
	for i := range 9 {
		d := digits[i]
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}

		sum += d
	}

	return (10-sum%10)%10 == digits[9]
}

// Validate checks value against the checksum implied by its length. Values that are
// neither 10 nor 13 characters long are rejected.
func Validate(value string) bool {
	switch len(value) {
	case cedulaLength:
		return ValidateCedula(value)
	case rucLength:
		return ValidateRUC(value)
	default:
		return false
	}
}

// KindOf classifies an identification by its length.
func KindOf(value string) Kind {
	switch {
	case len(value) == rucLength:
		return KindRUC
	case len(value) == cedulaLength:
		return KindCedula
	case len(value) > 0:
		return KindPassport
	default:
		return KindFinalConsumer
	}
}

// BuyerTypeCode returns the tipoIdentificacionComprador code for an identification:
// "04" RUC, "05" Cédula, "06" passport or other, "07" final consumer.
func BuyerTypeCode(value string) string {
	switch KindOf(value) {
	case KindRUC:
		return "04"
	case KindCedula:
		return "05"
	case KindPassport:
		return "06"
	default:
		return "07"
	}
}

func parseDigits(value string, length int) ([]int, bool) {
	if len(value) != length {
		return nil, false
	}

	digits := make([]int, length)

	for i := range length {
		c := value[i]
		if c < '0' || c > '9' {
			return nil, false
		}

		digits[i] = int(c - '0')
	}

	return digits, true
}
