package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/contable/internal/identity"
)

func TestValidateRUC(t *testing.T) {
	type testCase struct {
		name  string
		value string
		want  bool
	}

	tests := []testCase{
		{name: "Valid", value: "1792146738001", want: true},
		{name: "ValidLeadingZero", value: "0912345675001", want: true},
		{name: "ValidZeroCheckDigit", value: "1700000001001", want: true},
		{name: "WrongCheckDigit", value: "1792146739001", want: false},
		{name: "Empty", value: "", want: false},
		{name: "TooShort", value: "179214673800", want: false},
		{name: "TooLong", value: "17921467380011", want: false},
		{name: "CedulaLength", value: "1792146738", want: false},
		{name: "NonNumeric", value: "17921467A8001", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.ValidateRUC(tt.value))
		})
	}
}

func TestValidateCedula(t *testing.T) {
	type testCase struct {
		name  string
		value string
		want  bool
	}

	tests := []testCase{
		{name: "Valid", value: "1712345675", want: true},
		{name: "ValidGuayas", value: "0990000002", want: true},
		{name: "WrongCheckDigit", value: "1712345676", want: false},
		{name: "DelegatesToRUC", value: "1712345675001", want: true},
		{name: "InvalidRUCLength", value: "1712345676001", want: false},
		{name: "Empty", value: "", want: false},
		{name: "ElevenDigits", value: "17123456750", want: false},
		{name: "NonNumeric", value: "17123456-5", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.ValidateCedula(tt.value))
		})
	}
}

func TestValidate_SingleDigitMutation(t *testing.T) {
	valid := []string{
		"1792146738",
		"0990000002",
		"1712345675",
		"0912345675001",
		"1792146738001",
	}

	for _, v := range valid {
		assert.True(t, identity.Validate(v), v)

		// Only the first ten positions take part in the checksum.
		for pos := range 10 {
			for d := byte('0'); d <= '9'; d++ {
				if v[pos] == d {
					continue
				}

				mutated := []byte(v)
				mutated[pos] = d

				assert.False(t, identity.Validate(string(mutated)), "mutation %s at %d", mutated, pos)
			}
		}
	}
}

func TestBuyerTypeCode(t *testing.T) {
	assert.Equal(t, "04", identity.BuyerTypeCode("1792146738001"))
	assert.Equal(t, "05", identity.BuyerTypeCode("1712345675"))
	assert.Equal(t, "06", identity.BuyerTypeCode("AB123456"))
	assert.Equal(t, "07", identity.BuyerTypeCode(""))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, identity.KindRUC, identity.KindOf(identity.FinalConsumerID))
	assert.Equal(t, identity.KindCedula, identity.KindOf("1712345675"))
	assert.Equal(t, identity.KindPassport, identity.KindOf("P-77"))
	assert.Equal(t, identity.KindFinalConsumer, identity.KindOf(""))
}
