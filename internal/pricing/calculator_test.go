package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitPrice(t *testing.T) {
	cases := []struct {
		name     string
		base     float64
		discount float64
		want     float64
	}{
		{"no discount", 100, 0, 100},
		{"quarter off", 200, 25, 150},
		{"full discount", 80, 100, 0},
		{"fractional discount", 100, 12.5, 87.5},
		{"zero base", 0, 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, UnitPrice(tc.base, tc.discount), 1e-9)
		})
	}
}

func TestTotal(t *testing.T) {
	assert.InDelta(t, 600, Total(150, 4), 1e-9)
	assert.InDelta(t, 0, Total(150, 0), 1e-9)
	assert.InDelta(t, 87.5, Total(87.5, 1), 1e-9)
}
