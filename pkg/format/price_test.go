package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		currency string
		want     string
	}{
		{"plain usd", "1234.5", "USD", "US$1,234.50"},
		{"cad symbol", "99", "CAD", "CA$99.00"},
		{"thousands separators stripped", "1,234.50", "USD", "US$1,234.50"},
		{"unknown currency prefixes code", "20", "EUR", "EUR 20.00"},
		{"defaults to usd", "5", "", "US$5.00"},
		{"malformed passes through", "12abc", "CAD", "CAD 12abc"},
		{"three fraction digits is malformed", "1.234", "USD", "USD 1.234"},
		{"empty input", "", "USD", ""},
		{"whitespace only", "   ", "USD", ""},
		{"lowercase currency uppercased", "10", "cad", "CA$10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Price(tt.price, tt.currency))
		})
	}
}

func TestValidPrice(t *testing.T) {
	assert.True(t, ValidPrice("1234.50"))
	assert.True(t, ValidPrice("1,234.5"))
	assert.True(t, ValidPrice("0"))
	assert.True(t, ValidPrice(""))
	assert.False(t, ValidPrice("12abc"))
	assert.False(t, ValidPrice("1.234"))
	assert.False(t, ValidPrice("-5"))
}
