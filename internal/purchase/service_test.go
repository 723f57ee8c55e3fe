package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	"github.com/MrJamesThe3rd/contable/internal/purchase"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type mocks struct {
	repo      *purchase.MockRepository
	tx        *purchase.MockCreateTx
	suppliers *purchase.MockSupplierGetter
	stock     *purchase.MockStock
}

func newService(t *testing.T) (*purchase.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:      purchase.NewMockRepository(ctrl),
		tx:        purchase.NewMockCreateTx(ctrl),
		suppliers: purchase.NewMockSupplierGetter(ctrl),
		stock:     purchase.NewMockStock(ctrl),
	}

	return purchase.NewService(m.repo, m.suppliers, m.stock, nil), m
}

func TestService_Create(t *testing.T) {
	supplierID := uuid.New()
	productID := uuid.New()
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	supplier := &contact.Contact{ID: supplierID, Role: contact.RoleSupplier, Name: "Distribuidora Norte"}

	t.Run("RecordsStockEntries", func(t *testing.T) {
		svc, m := newService(t)

		m.suppliers.EXPECT().Get(gomock.Any(), supplierID).Return(supplier, nil)
		m.stock.EXPECT().GetProduct(gomock.Any(), productID).
			Return(&inventory.Product{ID: productID, Code: "P-1", Name: "Café", IVARate: d("15")}, nil)
		m.repo.EXPECT().BeginCreate(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().NextSequential(gomock.Any()).Return(int64(7), nil)
		m.tx.EXPECT().CreatePurchase(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)
		m.stock.EXPECT().RecordMovement(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p inventory.MovementParams) (*inventory.Movement, error) {
				assert.Equal(t, productID, p.ProductID)
				assert.Equal(t, inventory.MovementEntry, p.Type)
				assert.True(t, d("10").Equal(p.Quantity))
				assert.Equal(t, "COMP-000007", p.Reference)
				return &inventory.Movement{}, nil
			})

		got, err := svc.Create(context.Background(), purchase.CreateParams{
			SupplierID: supplierID,
			Date:       date,
			Lines: []purchase.LineParams{
				{ProductID: &productID, Quantity: d("10"), UnitPrice: d("2.50")},
				{Description: "Flete", Quantity: d("1"), UnitPrice: d("10")},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "COMP-000007", got.Number)
		assert.Equal(t, "Café", got.Lines[0].Description)
		assert.True(t, d("15").Equal(got.Lines[0].IVARate))
		assert.True(t, d("12").Equal(got.Lines[1].IVARate))
		assert.True(t, d("35").Equal(got.Subtotal))
		assert.True(t, d("4.95").Equal(got.IVA))
		assert.True(t, d("39.95").Equal(got.Total))
		assert.Equal(t, purchase.StatusCompleted, got.Status)
	})

	t.Run("ClientRejected", func(t *testing.T) {
		svc, m := newService(t)

		m.suppliers.EXPECT().Get(gomock.Any(), supplierID).
			Return(&contact.Contact{ID: supplierID, Role: contact.RoleClient}, nil)

		_, err := svc.Create(context.Background(), purchase.CreateParams{
			SupplierID: supplierID,
			Lines:      []purchase.LineParams{{Description: "x", Quantity: d("1")}},
		})
		assert.ErrorIs(t, err, purchase.ErrNotSupplier)
	})

	t.Run("NoLines", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(context.Background(), purchase.CreateParams{SupplierID: supplierID})
		assert.ErrorIs(t, err, purchase.ErrNoLines)
	})

	t.Run("InvalidLine", func(t *testing.T) {
		tests := []struct {
			name    string
			line    purchase.LineParams
			wantErr error
		}{
			{name: "ZeroQuantity", line: purchase.LineParams{Description: "x"}, wantErr: purchase.ErrInvalidQuantity},
			{name: "NoLabel", line: purchase.LineParams{Quantity: d("1")}, wantErr: purchase.ErrMissingLineLabel},
			{name: "Rate", line: purchase.LineParams{Description: "x", Quantity: d("1"), IVARate: new(d("13"))}, wantErr: purchase.ErrInvalidRate},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, m := newService(t)
				m.suppliers.EXPECT().Get(gomock.Any(), supplierID).Return(supplier, nil)

				_, err := svc.Create(context.Background(), purchase.CreateParams{
					SupplierID: supplierID,
					Lines:      []purchase.LineParams{tt.line},
				})
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestService_List(t *testing.T) {
	svc, m := newService(t)

	a := &purchase.Purchase{Number: "COMP-000001", Supplier: purchase.Supplier{Name: "Norte"}}
	b := &purchase.Purchase{Number: "COMP-000002", Supplier: purchase.Supplier{Name: "Sur"}}

	m.repo.EXPECT().ListPurchases(gomock.Any()).Return([]*purchase.Purchase{a, b}, nil)

	got, err := svc.List(context.Background(), purchase.ListFilter{Search: "sur"})
	require.NoError(t, err)
	assert.Equal(t, []*purchase.Purchase{b}, got)
}
