package extract

import (
	"encoding/hex"
	"log"
	"strings"
	"unicode/utf16"

	"studiocat/internal/xmltree"
)

// Samples returns the deduplicated set of absolute sample paths referenced
// by the document. Versions >= 11 store a plain path attribute; earlier
// versions store a hex-encoded, little-endian UTF-16 blob that must be
// decoded. A reference that fails to decode is skipped with a warning
// rather than failing the whole extraction.
func Samples(root *xmltree.Node, major int) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	for _, ref := range xmltree.FindAll(root, "SampleRef") {
		fileRef := ref.Child("FileRef")
		if fileRef == nil {
			continue
		}

		if major >= 11 {
			pathNode := fileRef.Child("Path")
			if pathNode == nil {
				continue
			}
			if v, ok := pathNode.Attr("Value"); ok {
				add(v)
			}
			continue
		}

		dataNode := fileRef.Child("Data")
		if dataNode == nil {
			continue
		}
		decoded, ok := decodeLegacySamplePath(dataNode.Text)
		if !ok {
			log.Printf("extract: samples: skipping undecodable legacy sample reference")
			continue
		}
		add(decoded)
	}

	return out
}

// decodeLegacySamplePath strips whitespace and tabs from raw, hex-decodes
// it, then interprets the bytes as little-endian UTF-16 with embedded
// U+0000 stripped. Invalid hex or an odd-length byte string fails softly.
func decodeLegacySamplePath(raw string) (string, bool) {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		default:
			return r
		}
	}, raw)
	if stripped == "" {
		return "", false
	}

	b, err := hex.DecodeString(stripped)
	if err != nil || len(b)%2 != 0 {
		return "", false
	}

	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}

	decoded := utf16.Decode(units)
	s := strings.ReplaceAll(string(decoded), "\x00", "")
	if s == "" {
		return "", false
	}
	return s, true
}
