package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<Ableton Creator="Ableton Live 11.0.0">
  <LiveSet>
    <MasterTrack>
      <DeviceChain>
        <Mixer>
          <Tempo>
            <Manual Value="120.5"/>
          </Tempo>
        </Mixer>
      </DeviceChain>
    </MasterTrack>
  </LiveSet>
</Ableton>`

func TestParseAndGet(t *testing.T) {
	tree, err := Parse([]byte(sampleXML))
	require.NoError(t, err)
	require.Equal(t, "Ableton", tree.Root.Name)

	creator, ok := tree.Root.Attr("Creator")
	require.True(t, ok)
	assert.Equal(t, "Ableton Live 11.0.0", creator)

	_, v, err := Get(tree.Root, "LiveSet.MasterTrack.DeviceChain.Mixer.Tempo.Manual", "Value", false)
	require.NoError(t, err)
	assert.Equal(t, "120.5", v)
}

func TestGetMissingRaisesUnlessSilent(t *testing.T) {
	tree, err := Parse([]byte(sampleXML))
	require.NoError(t, err)

	_, _, err = Get(tree.Root, "LiveSet.Nope", "Value", false)
	require.Error(t, err)

	_, _, err = Get(tree.Root, "LiveSet.Nope", "Value", true)
	require.NoError(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not xml at all"))
	require.Error(t, err)
}

func TestFindAllAnyDepth(t *testing.T) {
	doc := `<Root><A><CurrentEnd Value="4"/></A><B><CurrentEnd Value="8"/></B></Root>`
	tree, err := Parse([]byte(doc))
	require.NoError(t, err)

	nodes := FindAll(tree.Root, "CurrentEnd")
	require.Len(t, nodes, 2)
}
