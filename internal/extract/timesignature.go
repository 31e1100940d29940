package extract

import (
	"fmt"
	"strconv"

	"studiocat/internal/model"
	"studiocat/internal/xmltree"
)

// timeSignatureEventTime is the undocumented sentinel the original tool
// treats as canonical for locating the time-signature automation event.
const timeSignatureEventTime = "-63072000"

// TimeSignature locates the EnumEvent whose Time attribute equals the
// sentinel -63072000 (any depth) and decodes its Value into
// (numerator, denominator). If the marker is absent this is a recoverable
// ExtractionError; the caller may default beats-per-bar to 4 for the
// furthest-bar computation only, per spec.
func TimeSignature(root *xmltree.Node) (model.TimeSignature, error) {
	candidates := xmltree.FindAll(root, "EnumEvent")
	for _, n := range candidates {
		if t, ok := n.Attr("Time"); ok && t == timeSignatureEventTime {
			raw, ok := n.Attr("Value")
			if !ok {
				return model.TimeSignature{}, fmt.Errorf("extract: time_signature: %w: marker missing Value attribute", model.ErrExtraction)
			}
			v, err := strconv.Atoi(raw)
			if err != nil {
				return model.TimeSignature{}, fmt.Errorf("extract: time_signature: %w: non-integer Value %q", model.ErrExtraction, raw)
			}
			return model.TimeSignature{
				Numerator:   DecodeNumerator(v),
				Denominator: DecodeDenominator(v),
			}, nil
		}
	}
	return model.TimeSignature{}, fmt.Errorf("extract: time_signature: %w: marker EnumEvent@Time=%q not found", model.ErrExtraction, timeSignatureEventTime)
}

// DecodeNumerator implements the decoder law from spec.md §8:
//
//	v < 0      -> 1
//	v < 99     -> v + 1
//	otherwise  -> (v mod 99) + 1
func DecodeNumerator(v int) int {
	switch {
	case v < 0:
		return 1
	case v < 99:
		return v + 1
	default:
		return (v % 99) + 1
	}
}

// DecodeDenominator implements 2^(v div 99).
func DecodeDenominator(v int) int {
	multiple := v/99 + 1
	return 1 << uint(multiple-1)
}
