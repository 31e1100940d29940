package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationComputesSeconds(t *testing.T) {
	assert.Equal(t, 120.0, Duration(4, 4, 8))
}

func TestDurationZeroOnMissingOperand(t *testing.T) {
	assert.Equal(t, 0.0, Duration(0, 4, 120))
	assert.Equal(t, 0.0, Duration(4, 0, 120))
	assert.Equal(t, 0.0, Duration(4, 4, 0))
}
