package sgmlprep

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// OpenInput wraps r so that gzip- and xz-compressed streams are decompressed
// and text in charsetName is decoded to UTF-8. An empty charsetName or any
// spelling of UTF-8 leaves the bytes as they are.
func OpenInput(r io.Reader, charsetName string) (io.Reader, error) {
	in, err := decompress(r)
	if err != nil {
		return nil, err
	}

	if isUTF8(charsetName) {
		return in, nil
	}
	enc, name := charset.Lookup(charsetName)
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, charsetName)
	}
	if name == "utf-8" {
		return in, nil
	}
	return transform.NewReader(in, enc.NewDecoder()), nil
}

func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading input header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip input: %w", err)
		}
		return zr, nil
	case bytes.HasPrefix(head, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening xz input: %w", err)
		}
		return xr, nil
	default:
		return br, nil
	}
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
