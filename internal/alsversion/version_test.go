package alsversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullVersion(t *testing.T) {
	v, err := Parse("Ableton Live 11.0.2")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 11, Minor: 0, Patch: 2}, v)
}

func TestParseMissingPatchDefaultsZero(t *testing.T) {
	v, err := Parse("Ableton Live 9.7")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Patch)
	assert.False(t, v.Beta)
}

func TestParseBetaFlag(t *testing.T) {
	v, err := Parse("Ableton Live 12.0b4")
	require.NoError(t, err)
	assert.True(t, v.Beta)
}

func TestParseUnrecognized(t *testing.T) {
	_, err := Parse("not a creator string")
	require.Error(t, err)
}

func TestAtLeast(t *testing.T) {
	v := Version{Major: 9, Minor: 7, Patch: 0}
	assert.True(t, v.AtLeast(9, 7, 0))
	assert.True(t, v.AtLeast(9, 6, 9))
	assert.False(t, v.AtLeast(9, 8, 0))
	assert.False(t, v.AtLeast(10, 0, 0))
}
