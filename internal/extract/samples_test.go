package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiocat/internal/xmltree"
)

func TestSamplesPlainPathForMajor11(t *testing.T) {
	doc := `<Root><SampleRef><FileRef><Path Value="/home/user/a.wav"/></FileRef></SampleRef></Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/user/a.wav"}, Samples(tree.Root, 11))
}

func TestSamplesDecodesLegacyHexBlob(t *testing.T) {
	doc := `<Root><SampleRef><FileRef><Data>43 00 3A 00 5C 00 61 00 2E 00 77 00 61 00 76 00</Data></FileRef></SampleRef></Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{`C:\a.wav`}, Samples(tree.Root, 9))
}

func TestSamplesDedupesWithinFile(t *testing.T) {
	doc := `<Root>
	  <SampleRef><FileRef><Path Value="/a.wav"/></FileRef></SampleRef>
	  <SampleRef><FileRef><Path Value="/a.wav"/></FileRef></SampleRef>
	</Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"/a.wav"}, Samples(tree.Root, 11))
}

func TestSamplesInvalidHexSkipsWithoutError(t *testing.T) {
	doc := `<Root><SampleRef><FileRef><Data>zz</Data></FileRef></SampleRef></Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Empty(t, Samples(tree.Root, 9))
}

func TestDecodeLegacySamplePathStripsWhitespace(t *testing.T) {
	s, ok := decodeLegacySamplePath("43 00\t3A 00 5C 00 61 00 2E 00 77 00 61 00 76 00")
	require.True(t, ok)
	assert.Equal(t, `C:\a.wav`, s)
}
