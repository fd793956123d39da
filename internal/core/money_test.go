package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"500", "500", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2,3", "", false},
		{"1,234.5", "", false},
		{"", "", false},
		{"1e400", "", false},
		{"-1e400", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if assert.NoError(t, err, tc.in) {
				assert.Equal(t, tc.out, got.String(), tc.in)
			}
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestParseAmountErrorKinds(t *testing.T) {
	_, err := ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("-3")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ParseAmount("1e400")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestIsStorableAmount(t *testing.T) {
	assert.True(t, IsStorableAmount(decimal.NewFromInt(1_000_000)))
	assert.True(t, IsStorableAmount(decimal.RequireFromString("1e300")))
	assert.False(t, IsStorableAmount(decimal.RequireFromString("1e400")))
}

func TestFormatAmount(t *testing.T) {
	d, _ := ParseAmount("12,5")
	assert.Equal(t, "12.50", FormatAmount(d))
}
