// Package extract implements the per-field extraction routines that turn a
// parsed .als XML tree into catalog-ready values (C5).
package extract

import (
	"fmt"
	"math"
	"strconv"

	"studiocat/internal/alsversion"
	"studiocat/internal/model"
	"studiocat/internal/xmltree"
)

const (
	post10TempoPath = "LiveSet.MasterTrack.DeviceChain.Mixer.Tempo.Manual"
	pre10TempoPath  = "LiveSet.MasterTrack.MasterChain.Mixer.Tempo.ArrangerAutomation.Events.FloatEvent"
)

// Tempo extracts the project's BPM. Versions >= 10, or 9.7+, read the
// post-10 schema location; earlier versions read the automation-event
// location from the pre-10 schema. The result is rounded to 6 decimals.
// root is the file's XML root element (the one carrying the Creator
// attribute); dotted paths are resolved from it.
func Tempo(root *xmltree.Node, v alsversion.Version) (float64, error) {
	usePost10 := v.AtLeast(10, 0, 0) || (v.Major == 9 && v.Minor >= 7)

	var raw string
	var err error
	if usePost10 {
		_, raw, err = xmltree.Get(root, post10TempoPath, "Value", true)
		if err == nil && raw == "" {
			return 0, fmt.Errorf("extract: tempo: %w: post-10 tempo element absent", model.ErrExtraction)
		}
	} else {
		_, raw, err = xmltree.Get(root, pre10TempoPath, "Value", false)
	}
	if err != nil {
		return 0, fmt.Errorf("extract: tempo: %w", err)
	}

	f, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return 0, fmt.Errorf("extract: tempo: %w: invalid float %q", model.ErrExtraction, raw)
	}
	return round6(f), nil
}

func round6(f float64) float64 {
	const factor = 1e6
	return math.Round(f*factor) / factor
}
