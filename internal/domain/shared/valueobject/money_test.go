package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), MZN)
		require.NoError(t, err)
		assert.Equal(t, MZN, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", MZN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", MZN)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a := NewMoneyMZN(decimal.NewFromFloat(10.10))
		b := NewMoneyMZN(decimal.NewFromFloat(0.20))
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "10.3", sum.Amount().String())
	})

	t.Run("add with mismatched currency fails", func(t *testing.T) {
		a := NewMoneyMZN(decimal.NewFromInt(1))
		b, _ := NewMoney(decimal.NewFromInt(1), USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("subtract", func(t *testing.T) {
		a := NewMoneyMZN(decimal.NewFromInt(100))
		b := NewMoneyMZN(decimal.NewFromFloat(0.01))
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "99.99", diff.Amount().String())
	})

	t.Run("percentage is exact under decimal arithmetic", func(t *testing.T) {
		// 250 * 17% = 42.5 exactly - would drift under float64
		net := NewMoneyMZN(decimal.NewFromInt(250))
		tax := net.CalculatePercentage(decimal.NewFromInt(17))
		assert.Equal(t, "42.5", tax.Amount().String())
	})

	t.Run("repeated addition does not drift", func(t *testing.T) {
		sum := Zero(MZN)
		cent := NewMoneyMZN(decimal.NewFromFloat(0.01))
		for i := 0; i < 1000; i++ {
			sum = sum.MustAdd(cent)
		}
		assert.Equal(t, "10", sum.Amount().String())
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyMZN(decimal.NewFromInt(100))
	b := NewMoneyMZN(decimal.NewFromInt(100))
	c := NewMoneyMZN(decimal.NewFromInt(99))

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))

	ok, err := a.GreaterThanOrEqual(c)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals amount as decimal string", func(t *testing.T) {
		m := NewMoneyMZN(decimal.NewFromFloat(292.5))
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"292.5","currency":"MZN"}`, string(data))
	})

	t.Run("round trips", func(t *testing.T) {
		m := NewMoneyMZN(decimal.NewFromFloat(127.5))
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})
}

func TestMoneySQL(t *testing.T) {
	t.Run("value stores decimal string", func(t *testing.T) {
		m := NewMoneyMZN(decimal.NewFromFloat(42.5))
		v, err := m.Value()
		require.NoError(t, err)
		assert.Equal(t, "42.5", v)
	})

	t.Run("scan restores amount with default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("127.5"))
		assert.Equal(t, MZN, m.Currency())
		assert.Equal(t, "127.5", m.Amount().String())
	})

	t.Run("scan nil yields zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})
}
