package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Money
	}{
		{"0", 0},
		{"50", 5000},
		{"50.5", 5050},
		{"50.05", 5005},
		{" 1200.50 ", 120050},
		{".5", 50},
		{"+3", 300},
		{"-3.25", -325},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMoney_Rejects(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "1.234", "1e3", "5.", "1,50", "--1", "99999999999999999999"} {
		t.Run(in, func(t *testing.T) {
			_, err := domain.ParseMoney(in)
			assert.Error(t, err)
		})
	}
}

func TestMoney_Times(t *testing.T) {
	got, err := domain.Money(5000).Times(3)
	require.NoError(t, err)
	assert.Equal(t, "150.00", got.String())

	got, err = domain.Money(10).Times(3)
	require.NoError(t, err)
	assert.Equal(t, "0.30", got.String())

	_, err = domain.Money(math.MaxInt64 / 2).Times(3)
	assert.Error(t, err)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "0.00", domain.Money(0).String())
	assert.Equal(t, "0.05", domain.Money(5).String())
	assert.Equal(t, "-0.05", domain.Money(-5).String())
	assert.Equal(t, "1200.50", domain.Money(120050).String())
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Price domain.Money `json:"price"`
	}{domain.Money(15000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"150.00"}`, string(b))

	var fromNumber, fromString domain.Money
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"12.50"`), &fromString))
	assert.Equal(t, domain.Money(1250), fromNumber)
	assert.Equal(t, fromNumber, fromString)
}
