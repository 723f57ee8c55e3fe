package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

func TestService_CreateProduct(t *testing.T) {
	type testCase struct {
		name      string
		params    inventory.ProductParams
		setupMock func(m *inventory.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "WithoutStock",
			params: inventory.ProductParams{Code: "P-1", Name: "Café", IVARate: d("15")},
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().ListProducts(gomock.Any()).Return(nil, nil)
				m.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "OpeningStockRecorded",
			params: inventory.ProductParams{Code: "P-2", Name: "Azúcar", Stock: d("12"), IVARate: d("0"), TrackInventory: true},
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().ListProducts(gomock.Any()).Return(nil, nil)
				m.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil)
				m.EXPECT().
					ApplyMovement(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *inventory.Product, mv *inventory.Movement) error {
						assert.Equal(t, inventory.MovementEntry, mv.Type)
						assert.True(t, d("12").Equal(mv.Quantity))
						assert.Equal(t, p.ID, mv.ProductID)
						return nil
					})
			},
		},
		{
			name:    "DisallowedRate",
			params:  inventory.ProductParams{Code: "P-3", Name: "Té", IVARate: d("13")},
			wantErr: inventory.ErrInvalidRate,
		},
		{
			name:    "MissingCode",
			params:  inventory.ProductParams{Name: "Té"},
			wantErr: inventory.ErrMissingCode,
		},
		{
			name:   "DuplicateCode",
			params: inventory.ProductParams{Code: "p-1", Name: "Otro café", IVARate: d("15")},
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().ListProducts(gomock.Any()).Return([]*inventory.Product{{ID: uuid.New(), Code: "P-1"}}, nil)
			},
			wantErr: inventory.ErrDuplicateCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := inventory.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := inventory.NewService(repo).CreateProduct(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Code, got.Code)
		})
	}
}

func TestService_RecordMovement(t *testing.T) {
	id := uuid.New()

	t.Run("Exit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := inventory.NewMockRepository(ctrl)

		repo.EXPECT().GetProduct(gomock.Any(), id).Return(&inventory.Product{ID: id, Stock: d("10")}, nil)
		repo.EXPECT().
			ApplyMovement(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *inventory.Product, _ *inventory.Movement) error {
				assert.True(t, d("7").Equal(p.Stock))
				return nil
			})

		m, err := inventory.NewService(repo).RecordMovement(context.Background(), inventory.MovementParams{
			ProductID: id,
			Type:      inventory.MovementExit,
			Quantity:  d("3"),
		})
		require.NoError(t, err)
		assert.False(t, m.Date.IsZero())
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := inventory.NewMockRepository(ctrl)

		_, err := inventory.NewService(repo).RecordMovement(context.Background(), inventory.MovementParams{
			ProductID: id,
			Type:      inventory.MovementEntry,
			Quantity:  d("-1"),
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})

	t.Run("UnknownType", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := inventory.NewMockRepository(ctrl)

		_, err := inventory.NewService(repo).RecordMovement(context.Background(), inventory.MovementParams{
			ProductID: id,
			Type:      "transfer",
			Quantity:  d("1"),
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidMovement)
	})
}

func TestService_Kardex(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inventory.NewMockRepository(ctrl)

	id := uuid.New()
	day := func(n int) time.Time { return time.Date(2024, 3, n, 9, 0, 0, 0, time.UTC) }

	repo.EXPECT().ListMovements(gomock.Any(), id).Return([]*inventory.Movement{
		{Type: inventory.MovementExit, Quantity: d("4"), Date: day(3)},
		{Type: inventory.MovementEntry, Quantity: d("10"), Date: day(1)},
		{Type: inventory.MovementAdjustment, Quantity: d("20"), Date: day(5)},
		{Type: inventory.MovementEntry, Quantity: d("2"), Date: day(2)},
	}, nil)

	entries, err := inventory.NewService(repo).Kardex(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	balances := []string{"10", "12", "8", "20"}
	for i, e := range entries {
		assert.True(t, d(balances[i]).Equal(e.Balance), "entry %d balance %s", i, e.Balance)
	}

	assert.True(t, d("4").Equal(entries[2].Out))
	assert.True(t, entries[2].In.IsZero())
	assert.True(t, entries[3].In.IsZero())
	assert.True(t, entries[3].Out.IsZero())
}

func TestService_ListProducts_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inventory.NewMockRepository(ctrl)

	repo.EXPECT().ListProducts(gomock.Any()).Return([]*inventory.Product{
		{Code: "A", Name: "Arroz", Stock: d("1"), MinStock: d("5"), TrackInventory: true},
		{Code: "B", Name: "Frijol", Stock: d("10"), MinStock: d("5"), TrackInventory: true},
		{Code: "C", Name: "Servicio", Stock: decimal.Zero, MinStock: d("5")},
	}, nil)

	got, err := inventory.NewService(repo).ListProducts(context.Background(), inventory.ListFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Code)
}

func TestService_ImportProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inventory.NewMockRepository(ctrl)

	existingID := uuid.New()
	existing := &inventory.Product{ID: existingID, Code: "A", Name: "Arroz", Stock: d("8"), IVARate: d("0")}

	repo.EXPECT().ListProducts(gomock.Any()).Return([]*inventory.Product{existing}, nil).AnyTimes()
	repo.EXPECT().GetProduct(gomock.Any(), existingID).Return(existing, nil)
	repo.EXPECT().
		UpdateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *inventory.Product) error {
			assert.True(t, d("8").Equal(p.Stock))
			assert.True(t, d("1.25").Equal(p.SalePrice))
			return nil
		})
	repo.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil)

	res, err := inventory.NewService(repo).ImportProducts(context.Background(), []inventory.ProductParams{
		{Code: "a", Name: "Arroz 1kg", SalePrice: d("1.25"), IVARate: d("0")},
		{Code: "B", Name: "Frijol", IVARate: d("15")},
		{Code: "C", Name: "Mal", IVARate: d("7")},
	})
	require.NoError(t, err)

	assert.Len(t, res.Updated, 1)
	assert.Len(t, res.Created, 1)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 3, res.Failed[0].Row)
	assert.ErrorIs(t, res.Failed[0].Err, inventory.ErrInvalidRate)
}
