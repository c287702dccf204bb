package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/householderhq/householder/internal/utils"
)

func TestFormatWon(t *testing.T) {
	cases := map[int64]string{
		0:         "0원",
		999:       "999원",
		1000:      "1,000원",
		300_000:   "300,000원",
		1_250_000: "1,250,000원",
		-4500:     "-4,500원",
	}
	for amount, want := range cases {
		assert.Equal(t, want, utils.FormatWon(amount), "amount %d", amount)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,000원", utils.FormatAmount(1000, "KRW"))
	assert.Equal(t, "1,000원", utils.FormatAmount(1000, ""))
	assert.Equal(t, "1,000 USD", utils.FormatAmount(1000, "USD"))
}
