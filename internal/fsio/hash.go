// Package fsio provides the streaming hash, gzip, and filesystem-timestamp
// primitives the rest of the catalog is built on (C1).
package fsio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"studiocat/internal/model"
)

const bufSize = 4096 // spec mandates streaming in <=4 KiB blocks

// HashFile streams the file at path in <=4 KiB blocks into a SHA-256 state
// and returns its hex digest. This is the authoritative content hash used
// for Project.FileHash; it must never be swapped for a cheaper algorithm.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash: open %q: %w", path, model.ErrIO)
	}
	defer f.Close()
	return HashReader(f)
}

// HashReader hashes arbitrary content from r with SHA-256.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, bufSize)
	// Wrapping r hides any WriterTo (e.g. *os.File), so reads go through buf.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{r}, buf); err != nil {
		return "", fmt.Errorf("hash: copy reader: %w: %v", model.ErrIO, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint is a cheap, non-authoritative content signature used by the
// watcher/reconciler to decide whether a modified-event is worth a full
// SHA-256 re-hash. It is never stored in the catalog and never substitutes
// for HashFile when computing Project.FileHash.
type Fingerprint struct {
	Size    int64
	ModTime int64 // unix nano
	Digest  string
}

// ComputeFingerprint reads at most the first and last 64 KiB of the file
// (or the whole file if smaller) through BLAKE3, along with size and mtime.
// Two fingerprints matching makes a full SHA-256 re-hash very likely
// unnecessary; a mismatch makes it certain.
func ComputeFingerprint(path string) (Fingerprint, error) {
	const sampleWindow = 64 << 10

	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: open %q: %w", path, model.ErrIO)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: stat %q: %w", path, model.ErrIO)
	}

	h := blake3.New()
	size := info.Size()
	if size <= 2*sampleWindow {
		if _, err := io.Copy(h, f); err != nil {
			return Fingerprint{}, fmt.Errorf("fingerprint: read %q: %w", path, model.ErrIO)
		}
	} else {
		head := make([]byte, sampleWindow)
		if _, err := io.ReadFull(f, head); err != nil {
			return Fingerprint{}, fmt.Errorf("fingerprint: read head %q: %w", path, model.ErrIO)
		}
		h.Write(head)
		if _, err := f.Seek(-sampleWindow, io.SeekEnd); err != nil {
			return Fingerprint{}, fmt.Errorf("fingerprint: seek tail %q: %w", path, model.ErrIO)
		}
		tail := make([]byte, sampleWindow)
		if _, err := io.ReadFull(f, tail); err != nil {
			return Fingerprint{}, fmt.Errorf("fingerprint: read tail %q: %w", path, model.ErrIO)
		}
		h.Write(tail)
	}

	return Fingerprint{
		Size:    size,
		ModTime: info.ModTime().UnixNano(),
		Digest:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Equal reports whether two fingerprints are likely to describe unchanged
// content. It is a heuristic, not a guarantee.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Size == other.Size && f.ModTime == other.ModTime && f.Digest == other.Digest
}
