package workorder_test

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
	"github.com/MrJamesThe3rd/contable/internal/workorder"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to workorder.Status
		want     bool
	}{
		{workorder.StatusPending, workorder.StatusInProgress, true},
		{workorder.StatusPending, workorder.StatusCancelled, true},
		{workorder.StatusInProgress, workorder.StatusCompleted, true},
		{workorder.StatusInProgress, workorder.StatusPending, false},
		{workorder.StatusCompleted, workorder.StatusCancelled, false},
		{workorder.StatusCancelled, workorder.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestService_Create(t *testing.T) {
	clientID := uuid.New()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("TotalsAndNumber", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := workorder.NewMockRepository(ctrl)
		tx := workorder.NewMockCreateTx(ctrl)
		clients := workorder.NewMockClientGetter(ctrl)

		clients.EXPECT().Get(gomock.Any(), clientID).
			Return(&contact.Contact{ID: clientID, Role: contact.RoleClient, Name: "Taller Ruiz"}, nil)
		repo.EXPECT().BeginCreate(gomock.Any()).Return(tx, nil)
		tx.EXPECT().NextSequential(gomock.Any()).Return(int64(3), nil)
		tx.EXPECT().CreateWorkOrder(gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		got, err := workorder.NewService(repo, clients).Create(context.Background(), workorder.CreateParams{
			ClientID:    clientID,
			Description: "Mantenimiento preventivo",
			StartDate:   start,
			DueDate:     start.AddDate(0, 0, 7),
			Items: []workorder.Item{
				{Description: "Mano de obra", Quantity: d("4"), UnitPrice: d("25")},
				{Description: "Filtro", Quantity: d("1"), UnitPrice: d("50")},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "OT-000003", got.Number)
		assert.Equal(t, workorder.StatusPending, got.Status)
		assert.True(t, d("150").Equal(got.Subtotal))
		assert.True(t, d("18").Equal(got.IVA))
		assert.True(t, d("168").Equal(got.Total))
	})

	t.Run("Validation", func(t *testing.T) {
		items := []workorder.Item{{Description: "x", Quantity: d("1"), UnitPrice: d("1")}}

		tests := []struct {
			name    string
			params  workorder.CreateParams
			wantErr error
		}{
			{name: "NoDescription", params: workorder.CreateParams{Items: items}, wantErr: workorder.ErrMissingDesc},
			{name: "NoItems", params: workorder.CreateParams{Description: "x"}, wantErr: workorder.ErrNoItems},
			{name: "BadStatus", params: workorder.CreateParams{Description: "x", Items: items, Status: "closed"}, wantErr: workorder.ErrInvalidStatus},
			{
				name:    "DueBeforeStart",
				params:  workorder.CreateParams{Description: "x", Items: items, StartDate: start, DueDate: start.AddDate(0, 0, -1)},
				wantErr: workorder.ErrDueBeforeStart,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				svc := workorder.NewService(workorder.NewMockRepository(ctrl), workorder.NewMockClientGetter(ctrl))

				_, err := svc.Create(context.Background(), tt.params)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestService_SetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := workorder.NewMockRepository(ctrl)
	svc := workorder.NewService(repo, workorder.NewMockClientGetter(ctrl))

	w := &workorder.WorkOrder{ID: uuid.New(), Status: workorder.StatusCompleted}
	repo.EXPECT().GetWorkOrder(gomock.Any(), w.ID).Return(w, nil)

	_, err := svc.SetStatus(context.Background(), w.ID, workorder.StatusInProgress)
	assert.ErrorIs(t, err, workorder.ErrInvalidTransition)

	p := &workorder.WorkOrder{ID: uuid.New(), Status: workorder.StatusPending}
	repo.EXPECT().GetWorkOrder(gomock.Any(), p.ID).Return(p, nil)
	repo.EXPECT().UpdateWorkOrder(gomock.Any(), p).Return(nil)

	got, err := svc.SetStatus(context.Background(), p.ID, workorder.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, workorder.StatusInProgress, got.Status)
	assert.NotNil(t, got.UpdatedAt)
}
