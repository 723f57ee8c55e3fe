package accesskey_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
)

const (
	baseA = "202403150117921467390012001001000000123123456781"
	baseB = "150320240117921467390011001001000000123123456781"
)

func params() accesskey.Params {
	return accesskey.Params{
		IssueDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		RUC:           "1792146739001",
		Environment:   accesskey.EnvironmentTesting,
		Establishment: "1",
		PointOfSale:   "001",
		Sequential:    "123",
	}
}

func TestAlternatingCheckDigit(t *testing.T) {
	type testCase struct {
		name    string
		base    string
		want    int
		wantErr bool
	}

	tests := []testCase{
		{name: "FixedBase", base: baseA, want: 2},
		{name: "OtherBase", base: baseB, want: 3},
		{name: "AllZeros", base: "000000000000000000000000000000000000000000000000", want: 0},
		{name: "Empty", base: "", wantErr: true},
		{name: "NonNumeric", base: "2024-03-15", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accesskey.AlternatingCheckDigit(tt.base)
			if tt.wantErr {
				assert.ErrorIs(t, err, accesskey.ErrInvalidBase)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModulo11CheckDigit(t *testing.T) {
	type testCase struct {
		name string
		base string
		want int
	}

	tests := []testCase{
		{name: "FixedBase", base: baseB, want: 7},
		{name: "AlternatingBase", base: baseA, want: 4},
		{name: "AllZerosMapsElevenToZero", base: "000000000000000000000000000000000000000000000000", want: 0},
		// 2*5 = 10 -> 11 - 10 = 1
		{name: "SingleDigit", base: "5", want: 1},
		// 2*1 = 2 -> 11 - 2 = 9
		{name: "SingleOne", base: "1", want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accesskey.Modulo11CheckDigit(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantsDisagree(t *testing.T) {
	a, err := accesskey.AlternatingCheckDigit(baseA)
	require.NoError(t, err)

	b, err := accesskey.Modulo11CheckDigit(baseA)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBuildAlternating(t *testing.T) {
	key, err := accesskey.BuildAlternating(params(), "12345678")
	require.NoError(t, err)

	assert.Len(t, key, accesskey.Length)
	assert.Equal(t, baseA+"2", key)
	assert.True(t, accesskey.VerifyAlternating(key))
}

func TestBuildAlternating_ProductionEnvironment(t *testing.T) {
	p := params()
	p.Environment = accesskey.EnvironmentProduction

	key, err := accesskey.BuildAlternating(p, "12345678")
	require.NoError(t, err)

	assert.Equal(t, "1", key[23:24])
}

func TestBuildAlternating_NormalizesFields(t *testing.T) {
	p := params()
	p.RUC = "179-214-6739-001"
	p.Establishment = "0012"
	p.Sequential = "0000000001234"

	key, err := accesskey.BuildAlternating(p, "00000001")
	require.NoError(t, err)

	assert.Equal(t, "1792146739001", key[10:23])
	assert.Equal(t, "001", key[24:27])
	assert.Equal(t, "000000000", key[30:39])
}

func TestGenerateAlternating_Deterministic(t *testing.T) {
	first, err := accesskey.GenerateAlternating(params(), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	second, err := accesskey.GenerateAlternating(params(), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, accesskey.VerifyAlternating(first))
}

func TestGenerateAlternating_Random(t *testing.T) {
	key, err := accesskey.GenerateAlternating(params(), nil)
	require.NoError(t, err)

	assert.Len(t, key, accesskey.Length)
	assert.True(t, accesskey.VerifyAlternating(key))
}

func TestBuildModulo11(t *testing.T) {
	key, err := accesskey.BuildModulo11(accesskey.Fields{
		Date:          "15032024",
		DocType:       "01",
		RUC:           "1792146739001",
		Environment:   "1",
		Establishment: "001",
		PointOfSale:   "001",
		Sequential:    "123",
		NumericCode:   "12345678",
		Emission:      "1",
	})
	require.NoError(t, err)

	assert.Equal(t, baseB+"7", key)
	assert.True(t, accesskey.VerifyModulo11(key))
	assert.False(t, accesskey.VerifyAlternating(key))
}

func TestBuildModulo11_Errors(t *testing.T) {
	_, err := accesskey.BuildModulo11(accesskey.Fields{Date: "2024-03-15"})
	assert.ErrorIs(t, err, accesskey.ErrFieldTooLong)

	_, err = accesskey.BuildModulo11(accesskey.Fields{Date: "15X32024"})
	assert.ErrorIs(t, err, accesskey.ErrInvalidBase)
}

func TestVerify_RejectsMalformed(t *testing.T) {
	assert.False(t, accesskey.VerifyModulo11(""))
	assert.False(t, accesskey.VerifyModulo11(baseB))
	assert.False(t, accesskey.VerifyAlternating(baseA+"X"))
	assert.False(t, accesskey.VerifyAlternating(baseA+"3"))
}

func TestRandomNumericCode(t *testing.T) {
	code := accesskey.RandomNumericCode(rand.New(rand.NewPCG(7, 7)))
	assert.Len(t, code, 8)
}

func TestAuthorizationEnvironmentCode(t *testing.T) {
	assert.Equal(t, "1", accesskey.AuthorizationEnvironmentCode(accesskey.EnvironmentProduction))
	assert.Equal(t, "2", accesskey.AuthorizationEnvironmentCode(accesskey.EnvironmentTesting))
}
