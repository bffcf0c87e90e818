package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsFromDecimal(t *testing.T) {
	assert.Equal(t, int64(999), CentsFromDecimal(9.99))
	assert.Equal(t, int64(1000), CentsFromDecimal(10))
	assert.Equal(t, int64(1), CentsFromDecimal(0.01))
	assert.Equal(t, int64(30), CentsFromDecimal(0.29999999999999999))
}

func TestDecimalFromCents(t *testing.T) {
	assert.Equal(t, 29.97, DecimalFromCents(2997))
	assert.Equal(t, 0.0, DecimalFromCents(0))
}
