// Package reader loads file bytes under a size ceiling and decodes them to
// text. Oversize files fail closed before the content is fully materialized;
// binary files are classified rather than rejected so metadata operations
// can still succeed on them.
package reader

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"codescope/fault"
)

// binarySniffLen is how many leading bytes are checked for NUL to classify
// content as binary.
const binarySniffLen = 512

// Content is the outcome of reading one file.
type Content struct {
	Text   string
	Binary bool // NUL found in the leading bytes; Text is empty
}

// Reader reads files with a byte ceiling.
type Reader struct {
	maxBytes int64
}

// New creates a reader enforcing the given ceiling. A non-positive ceiling
// defaults to 1MB.
func New(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = 1024 * 1024
	}
	return &Reader{maxBytes: maxBytes}
}

// MaxBytes returns the configured ceiling.
func (r *Reader) MaxBytes() int64 { return r.maxBytes }

// Read loads the file at absPath and decodes it using the named encoding
// ("" means auto: UTF-8 with BOM override). relPath is used only in error
// values. Files larger than the ceiling fail with TooLarge before being
// read past the boundary.
func (r *Reader) Read(absPath, relPath, encodingName string) (Content, error) {
	f, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Content{}, fault.New(fault.NotFound, relPath)
		}
		return Content{}, fault.Wrap(fault.NotFound, relPath, err)
	}
	defer f.Close()

	// Read one byte past the ceiling so overflow is detected without
	// trusting a stat that may already be stale.
	raw, err := io.ReadAll(io.LimitReader(f, r.maxBytes+1))
	if err != nil {
		return Content{}, fault.Wrap(fault.NotFound, relPath, err)
	}
	if int64(len(raw)) > r.maxBytes {
		return Content{}, fault.New(fault.TooLarge, relPath)
	}

	// UTF-16 text is full of NUL bytes; only run the binary sniff when the
	// content cannot be UTF-16.
	wide := hasUTF16BOM(raw) || strings.HasPrefix(strings.ToLower(encodingName), "utf-16") ||
		strings.HasPrefix(strings.ToLower(encodingName), "utf16")
	if !wide && isBinary(raw) {
		return Content{Binary: true}, nil
	}

	dec, err := decoderFor(encodingName, relPath)
	if err != nil {
		return Content{}, err
	}
	decoded, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return Content{}, fault.Wrap(fault.Decode, relPath, err)
	}
	if !utf8.Valid(decoded) {
		return Content{}, fault.New(fault.Decode, relPath)
	}

	return Content{Text: string(decoded)}, nil
}

// hasUTF16BOM reports whether data starts with a UTF-16 byte order mark.
func hasUTF16BOM(data []byte) bool {
	return len(data) >= 2 &&
		((data[0] == 0xff && data[1] == 0xfe) || (data[0] == 0xfe && data[1] == 0xff))
}

// isBinary reports whether data looks like binary content (NUL byte within
// the sniff window).
func isBinary(data []byte) bool {
	n := len(data)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}

// decoderFor maps an encoding name to a transformer. The default is UTF-8
// with a BOM override, which transparently handles UTF-8 and UTF-16 BOMs.
func decoderFor(name, relPath string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "utf-8", "utf8":
		return unicode.UTF8.NewDecoder(), nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	default:
		return nil, fault.Wrap(fault.Decode, relPath, errUnsupportedEncoding(name))
	}
}

type errUnsupportedEncoding string

func (e errUnsupportedEncoding) Error() string {
	return "unsupported encoding " + string(e)
}
