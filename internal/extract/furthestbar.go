package extract

import (
	"strconv"

	"studiocat/internal/xmltree"
)

// FurthestBar returns the largest CurrentEnd value found anywhere in the
// document, expressed in bars using beatsPerBar (the time signature's
// numerator). It never errors: a document with no CurrentEnd markers
// produces 0, matching the original tool's "nothing to report" behavior.
func FurthestBar(root *xmltree.Node, beatsPerBar int) float64 {
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}

	var furthestBeats float64
	for _, n := range xmltree.FindAll(root, "CurrentEnd") {
		raw, ok := n.Attr("Value")
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if v > furthestBeats {
			furthestBeats = v
		}
	}

	return furthestBeats / float64(beatsPerBar)
}
