package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiocat/internal/xmltree"
)

func TestTimeSignatureDecodesValueThreeAsFourOverOne(t *testing.T) {
	doc := fmt.Sprintf(`<Ableton><LiveSet><EnumEvent Time="%s" Value="3"/></LiveSet></Ableton>`, timeSignatureEventTime)
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	ts, err := TimeSignature(tree.Root)
	require.NoError(t, err)
	assert.Equal(t, 4, ts.Numerator)
	assert.Equal(t, 1, ts.Denominator)
}

func TestTimeSignatureMarkerAbsentIsRecoverableError(t *testing.T) {
	tree, err := xmltree.Parse([]byte(`<Ableton><LiveSet/></Ableton>`))
	require.NoError(t, err)

	_, err = TimeSignature(tree.Root)
	require.Error(t, err)
}

func TestDecodeNumeratorLaw(t *testing.T) {
	for v := 0; v < 99; v++ {
		assert.Equal(t, v+1, DecodeNumerator(v))
	}
	assert.Equal(t, 1, DecodeNumerator(-5))
	assert.Equal(t, 1, DecodeNumerator(99))
	assert.Equal(t, 5, DecodeNumerator(103))
}

func TestDecodeDenominatorLaw(t *testing.T) {
	assert.Equal(t, 1, DecodeDenominator(0))
	assert.Equal(t, 2, DecodeDenominator(99))
	assert.Equal(t, 4, DecodeDenominator(198))
}
