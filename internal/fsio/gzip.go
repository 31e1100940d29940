package fsio

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"studiocat/internal/model"
)

// Decompress gunzips b in full. Ableton uses gzip (not zlib) for the .als
// envelope, same as the teacher's als.Read.
func Decompress(b []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decompress: %w: %v", model.ErrFormat, err)
	}
	defer gr.Close()

	out, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("decompress: read: %w: %v", model.ErrFormat, err)
	}
	return out, nil
}

// ReadGzipFile opens path, gzip-decompresses it, and returns both the raw
// (still-compressed) bytes and the decompressed payload. The raw bytes are
// what gets SHA-256'd for Project.FileHash; the decompressed payload is what
// gets handed to the XML parser.
func ReadGzipFile(path string) (raw []byte, decompressed []byte, err error) {
	raw, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", path, model.ErrIO)
	}
	decompressed, err = Decompress(raw)
	if err != nil {
		return raw, nil, err
	}
	return raw, decompressed, nil
}
