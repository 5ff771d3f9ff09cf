package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementTypeIsValid(t *testing.T) {
	assert.True(t, MovementIn.IsValid())
	assert.True(t, MovementOut.IsValid())
	assert.True(t, MovementTransfer.IsValid())
	assert.True(t, MovementAdjustment.IsValid())
	assert.False(t, MovementType("RETURN").IsValid())
	assert.False(t, MovementType("").IsValid())
}

func TestNewStockMovement(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("creates valid movement", func(t *testing.T) {
		m, err := NewStockMovement(tenantID, productID, nil, MovementIn, decimal.NewFromInt(150), "PO-1", "Goods received", nil)
		require.NoError(t, err)
		assert.Equal(t, MovementIn, m.Type)
		assert.True(t, m.Quantity.Equal(decimal.NewFromInt(150)))
		assert.NotEqual(t, uuid.Nil, m.ID)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		_, err := NewStockMovement(uuid.Nil, productID, nil, MovementIn, decimal.NewFromInt(1), "", "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing product", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, uuid.Nil, nil, MovementIn, decimal.NewFromInt(1), "", "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID, nil, MovementType("BOGUS"), decimal.NewFromInt(1), "", "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID, nil, MovementOut, decimal.Zero, "", "", nil)
		assert.Error(t, err)

		_, err = NewStockMovement(tenantID, productID, nil, MovementOut, decimal.NewFromInt(-5), "", "", nil)
		assert.Error(t, err)
	})
}

func TestStockLevelApply(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("IN adds to the level", func(t *testing.T) {
		level := NewStockLevel(tenantID, productID, uuid.Nil)
		require.NoError(t, level.Apply(MovementIn, decimal.NewFromInt(150)))
		assert.Equal(t, "150", level.Quantity.String())
	})

	t.Run("OUT subtracts", func(t *testing.T) {
		level := NewStockLevel(tenantID, productID, uuid.Nil)
		require.NoError(t, level.Apply(MovementIn, decimal.NewFromInt(150)))
		require.NoError(t, level.Apply(MovementOut, decimal.NewFromInt(30)))
		assert.Equal(t, "120", level.Quantity.String())
	})

	t.Run("OUT beyond available clamps to zero", func(t *testing.T) {
		level := NewStockLevel(tenantID, productID, uuid.Nil)
		require.NoError(t, level.Apply(MovementIn, decimal.NewFromInt(150)))
		require.NoError(t, level.Apply(MovementOut, decimal.NewFromInt(200)))
		assert.Equal(t, "0", level.Quantity.String())
	})

	t.Run("ADJUSTMENT overrides absolutely", func(t *testing.T) {
		level := NewStockLevel(tenantID, productID, uuid.Nil)
		require.NoError(t, level.Apply(MovementIn, decimal.NewFromInt(10)))
		require.NoError(t, level.Apply(MovementAdjustment, decimal.NewFromInt(75)))
		assert.Equal(t, "75", level.Quantity.String())
	})

	t.Run("TRANSFER cannot be applied to a single level", func(t *testing.T) {
		level := NewStockLevel(tenantID, productID, uuid.Nil)
		assert.Error(t, level.Apply(MovementTransfer, decimal.NewFromInt(5)))
	})

	t.Run("level equals the deterministic fold of movement effects", func(t *testing.T) {
		level := NewStockLevel(tenantID, productID, uuid.Nil)
		steps := []struct {
			movementType MovementType
			qty          int64
			want         string
		}{
			{MovementIn, 150, "150"},
			{MovementOut, 200, "0"},
			{MovementIn, 40, "40"},
			{MovementAdjustment, 12, "12"},
			{MovementOut, 5, "7"},
		}
		for _, step := range steps {
			require.NoError(t, level.Apply(step.movementType, decimal.NewFromInt(step.qty)))
			assert.Equal(t, step.want, level.Quantity.String())
		}
	})
}
