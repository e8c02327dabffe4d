package counterparty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"900.123.456-7", "9001234567"},
		{"0000123456", "123456"},
		{" 900 123 456 ", "900123456"},
		{"0", "0"},
		{"000", "0"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeID(tt.in), tt.in)
	}
}

func TestRegistry_Context(t *testing.T) {
	t.Parallel()

	r := NewRegistry(decimal.RequireFromString("0.12"), nil)
	require.NoError(t, r.Add(Counterparty{
		ID:               "900.123.456",
		Name:             "Cliente Ejemplo S.A.",
		ConversionFactor: decimal.RequireFromString("0.085"),
	}))
	require.NoError(t, r.Add(Counterparty{ID: "555444333", Name: "Sin FC"}))

	ctx := r.Context("900123456")
	assert.Equal(t, "900123456", ctx.ID)
	assert.Equal(t, "Cliente Ejemplo S.A.", ctx.Name)
	assert.True(t, ctx.ConversionFactor.Equal(decimal.RequireFromString("0.085")))
	assert.False(t, ctx.DefaultFC)

	ctx = r.Context("555444333")
	assert.True(t, ctx.DefaultFC)
	assert.True(t, ctx.ConversionFactor.Equal(decimal.RequireFromString("0.12")))

	ctx = r.Context("unknown")
	assert.True(t, ctx.DefaultFC)
	assert.True(t, ctx.ConversionFactor.Equal(r.DefaultFC()))
}

func TestRegistry_AddValidation(t *testing.T) {
	t.Parallel()

	r := NewRegistry(decimal.RequireFromString("0.12"), nil)
	assert.ErrorIs(t, r.Add(Counterparty{ID: " - "}), ErrEmptyID)
	assert.Error(t, r.Add(Counterparty{ID: "1", ConversionFactor: decimal.RequireFromString("-0.1")}))

	require.NoError(t, r.Add(Counterparty{ID: "2"}))
	require.NoError(t, r.Add(Counterparty{ID: "01"}))
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "2", all[1].ID)

	_, ok := r.Get("0001")
	assert.True(t, ok)
}
