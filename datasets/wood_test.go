package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWood(t *testing.T) {
	y := Wood()
	assert.Len(t, y, 320)
	assert.Equal(t, 106.0, y[0])
	assert.Equal(t, 82.0, y[len(y)-1])

	// callers get their own copy
	y[0] = 0
	assert.Equal(t, 106.0, Wood()[0])
}
