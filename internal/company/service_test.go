package company_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/company"
)

func TestService_Save(t *testing.T) {
	valid := company.SaveParams{
		Name:          "Comercial Andina",
		RUC:           "1792146739001",
		Address:       "Quito",
		Establishment: "1",
		PointOfSale:   "02",
	}

	type testCase struct {
		name      string
		mutate    func(p *company.SaveParams)
		setupMock func(m *company.MockRepository)
		wantErr   error
		check     func(t *testing.T, c *company.Company)
	}

	tests := []testCase{
		{
			name: "PadsCodesAndDefaultsEnvironment",
			setupMock: func(m *company.MockRepository) {
				m.EXPECT().SaveCompany(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, c *company.Company) {
				assert.Equal(t, "001", c.Establishment)
				assert.Equal(t, "002", c.PointOfSale)
				assert.Equal(t, accesskey.EnvironmentTesting, c.Environment)
				assert.Equal(t, "001-002", c.Series())
				assert.False(t, c.UpdatedAt.IsZero())
			},
		},
		{
			name:   "RUCChecksumNotEnforced",
			mutate: func(p *company.SaveParams) { p.RUC = "1792146738001" },
			setupMock: func(m *company.MockRepository) {
				m.EXPECT().SaveCompany(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{name: "ShortRUC", mutate: func(p *company.SaveParams) { p.RUC = "179214673900" }, wantErr: company.ErrInvalidRUC},
		{name: "NonNumericRUC", mutate: func(p *company.SaveParams) { p.RUC = "17921467390A1" }, wantErr: company.ErrInvalidRUC},
		{name: "LongEstablishment", mutate: func(p *company.SaveParams) { p.Establishment = "0001" }, wantErr: company.ErrInvalidCode},
		{name: "BadEnvironment", mutate: func(p *company.SaveParams) { p.Environment = "staging" }, wantErr: company.ErrInvalidEnvironment},
		{name: "MissingName", mutate: func(p *company.SaveParams) { p.Name = "  " }, wantErr: company.ErrMissingName},
		{
			name: "RepoError",
			setupMock: func(m *company.MockRepository) {
				m.EXPECT().SaveCompany(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := company.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			params := valid
			if tt.mutate != nil {
				tt.mutate(&params)
			}

			got, err := company.NewService(repo).Save(context.Background(), params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.wantErr.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestCompany_Issuer(t *testing.T) {
	c := &company.Company{
		Name:                 "Comercial Andina",
		RUC:                  "1792146739001",
		Establishment:        "001",
		PointOfSale:          "001",
		Environment:          accesskey.EnvironmentProduction,
		AccountingObligation: true,
	}

	issuer := c.Issuer()
	assert.Equal(t, c.RUC, issuer.RUC)
	assert.Equal(t, accesskey.EnvironmentProduction, issuer.Environment)
	assert.True(t, issuer.AccountingObligation)
}
