package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMovement_Apply(t *testing.T) {
	type testCase struct {
		name  string
		typ   inventory.MovementType
		stock string
		qty   string
		want  string
	}

	tests := []testCase{
		{name: "Entry", typ: inventory.MovementEntry, stock: "10", qty: "5", want: "15"},
		{name: "Exit", typ: inventory.MovementExit, stock: "10", qty: "4", want: "6"},
		{name: "ExitClampedAtZero", typ: inventory.MovementExit, stock: "3", qty: "5", want: "0"},
		{name: "AdjustmentSets", typ: inventory.MovementAdjustment, stock: "10", qty: "7", want: "7"},
		{name: "FractionalEntry", typ: inventory.MovementEntry, stock: "1.5", qty: "0.25", want: "1.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := inventory.Movement{Type: tt.typ, Quantity: d(tt.qty)}
			assert.True(t, d(tt.want).Equal(m.Apply(d(tt.stock))))
		})
	}
}

func TestProduct_LowStock(t *testing.T) {
	assert.True(t, (&inventory.Product{TrackInventory: true, Stock: d("2"), MinStock: d("2")}).LowStock())
	assert.False(t, (&inventory.Product{TrackInventory: true, Stock: d("3"), MinStock: d("2")}).LowStock())
	assert.False(t, (&inventory.Product{TrackInventory: false, Stock: d("0"), MinStock: d("2")}).LowStock())
}
