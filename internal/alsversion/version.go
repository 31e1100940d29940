// Package alsversion parses the Creator string embedded in an .als file's
// XML root and provides version-predicate guards for extractors (C4).
package alsversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"studiocat/internal/model"
)

var creatorRe = regexp.MustCompile(`Ableton Live (\d{1,2})\.(\d{1,3})[\.b]?(\d{1,3})?`)

// Version is the parsed (major, minor, patch) triple from a Creator string.
type Version struct {
	Major int
	Minor int
	Patch int
	Beta  bool
}

// Parse extracts (major, minor, patch) from a raw Creator attribute value,
// e.g. "Ableton Live 11.0.2" or "Ableton Live 12.0b4". A missing patch
// segment defaults to 0. A trailing "b<digits>" token marks the file beta
// (warn-only; Beta never causes Parse to fail).
func Parse(creator string) (Version, error) {
	m := creatorRe.FindStringSubmatch(creator)
	if m == nil {
		return Version{}, fmt.Errorf("alsversion: %w: could not parse version from %q", model.ErrExtraction, creator)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("alsversion: %w: invalid major version in %q", model.ErrExtraction, creator)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("alsversion: %w: invalid minor version in %q", model.ErrExtraction, creator)
	}
	patch := 0
	if m[3] != "" {
		patch, err = strconv.Atoi(m[3])
		if err != nil {
			patch = 0
		}
	}

	fields := strings.Fields(creator)
	beta := len(fields) > 0 && strings.Contains(fields[len(fields)-1], "b")

	return Version{Major: major, Minor: minor, Patch: patch, Beta: beta}, nil
}

// AtLeast reports whether v is >= (major, minor, patch) under ordinary
// lexicographic triple comparison.
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// Tuple returns (major, minor, patch) for storage in the catalog.
func (v Version) Tuple() (int, int, int) {
	return v.Major, v.Minor, v.Patch
}
