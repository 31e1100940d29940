package extract

import (
	"fmt"
	"strconv"

	"studiocat/internal/xmltree"
)

// noteSymbols maps a MIDI pitch class (0-11) to its display symbol.
var noteSymbols = [12]string{
	"C", "C#/Db", "D", "D#/Eb", "E", "F",
	"F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B",
}

// Unknown is returned whenever a project's key cannot be determined.
const Unknown = "Unknown"

// Key returns "Unknown" for files with major < 11. Otherwise it scans
// every MidiClip flagged IsInKey="true", accumulates a "<note> <scale>"
// string per clip from its ScaleInformation, and returns the most
// frequent string observed. A uniform histogram resolves to the first
// string observed, matching the original tool's tie-break.
func Key(root *xmltree.Node, major int) string {
	if major < 11 {
		return Unknown
	}

	var observed []string
	counts := make(map[string]int)

	for _, clip := range xmltree.FindAll(root, "MidiClip") {
		inKey := clip.Child("IsInKey")
		if inKey == nil {
			continue
		}
		if v, _ := inKey.Attr("Value"); v != "true" {
			continue
		}

		scale := clip.Child("ScaleInformation")
		if scale == nil {
			continue
		}
		root := scale.Child("RootNote")
		name := scale.Child("Name")
		if root == nil || name == nil {
			continue
		}
		rv, ok := root.Attr("Value")
		if !ok {
			continue
		}
		pitch, err := strconv.Atoi(rv)
		if err != nil {
			continue
		}
		nv, ok := name.Attr("Value")
		if !ok {
			continue
		}

		symbol := noteSymbols[((pitch%12)+12)%12]
		label := fmt.Sprintf("%s %s", symbol, nv)

		if counts[label] == 0 {
			observed = append(observed, label)
		}
		counts[label]++
	}

	if len(observed) == 0 {
		return Unknown
	}

	best := observed[0]
	bestCount := counts[best]
	for _, s := range observed[1:] {
		if counts[s] > bestCount {
			best = s
			bestCount = counts[s]
		}
	}
	return best
}
