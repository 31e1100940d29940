package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiocat/internal/xmltree"
)

func TestKeyUnknownBelowMajor11(t *testing.T) {
	tree, err := xmltree.Parse([]byte(`<Root><MidiClip><IsInKey Value="true"/></MidiClip></Root>`))
	require.NoError(t, err)

	assert.Equal(t, Unknown, Key(tree.Root, 10))
}

func TestKeyIgnoresClipsNotInKey(t *testing.T) {
	doc := `<Root><MidiClip><IsInKey Value="false"/><ScaleInformation>
	  <RootNote Value="0"/><Name Value="Major"/>
	</ScaleInformation></MidiClip></Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, Unknown, Key(tree.Root, 11))
}

func TestKeyMostFrequentWins(t *testing.T) {
	doc := `<Root>
	  <MidiClip><IsInKey Value="true"/><ScaleInformation><RootNote Value="0"/><Name Value="Major"/></ScaleInformation></MidiClip>
	  <MidiClip><IsInKey Value="true"/><ScaleInformation><RootNote Value="2"/><Name Value="Minor"/></ScaleInformation></MidiClip>
	  <MidiClip><IsInKey Value="true"/><ScaleInformation><RootNote Value="0"/><Name Value="Major"/></ScaleInformation></MidiClip>
	</Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "C Major", Key(tree.Root, 11))
}

func TestKeyTieBreakReturnsFirstObserved(t *testing.T) {
	doc := `<Root>
	  <MidiClip><IsInKey Value="true"/><ScaleInformation><RootNote Value="2"/><Name Value="Minor"/></ScaleInformation></MidiClip>
	  <MidiClip><IsInKey Value="true"/><ScaleInformation><RootNote Value="0"/><Name Value="Major"/></ScaleInformation></MidiClip>
	</Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "D Minor", Key(tree.Root, 11))
}

func TestKeyEmptyInputIsUnknown(t *testing.T) {
	tree, err := xmltree.Parse([]byte(`<Root/>`))
	require.NoError(t, err)

	assert.Equal(t, Unknown, Key(tree.Root, 11))
}

func TestNoteSymbolWrapsModulo12(t *testing.T) {
	doc := `<Root><MidiClip><IsInKey Value="true"/><ScaleInformation><RootNote Value="12"/><Name Value="Major"/></ScaleInformation></MidiClip></Root>`
	tree, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "C Major", Key(tree.Root, 11))
}
