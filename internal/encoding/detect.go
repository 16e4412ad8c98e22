// Package encoding turns bank files of unknown charset into UTF-8 text.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// peekSize bounds the sample used for BOM and charset detection.
const peekSize = 4096

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8. Detection looks only at the first
// peekSize bytes; use Normalize when the whole input must be checked.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Validate if the content is valid UTF-8 and return as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252, a superset of the Latin-1 used by N43 files
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	skip, decoder := detect(buf, trimPartialRune(buf))
	if skip > 0 {
		_, _ = br.Discard(skip)
	}

	if decoder == nil {
		return br, nil
	}

	return transform.NewReader(br, decoder), nil
}

// Normalize reads the whole input as UTF-8 text with LF line endings.
// Unlike NewUTF8Reader, the charset is decided from the complete content,
// so Latin-1 bytes late in a long file are still decoded.
func Normalize(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}

	skip, decoder := detect(raw, raw)
	data := raw[skip:]

	if decoder != nil {
		data, _, err = transform.Bytes(decoder, data)
		if err != nil {
			return "", fmt.Errorf("decode content: %w", err)
		}
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	return strings.ReplaceAll(text, "\r", "\n"), nil
}

// detect picks the decoder for content starting with head. The returned
// skip is the length of a UTF-8 BOM to drop; a nil transformer means the
// content is already UTF-8. sample is what gets validated and fed to chardet.
func detect(head, sample []byte) (int, transform.Transformer) {
	switch {
	case bytes.HasPrefix(head, bomUTF8):
		return len(bomUTF8), nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return 0, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case bytes.HasPrefix(head, bomUTF16BE):
		return 0, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}

	if utf8.Valid(sample) {
		return 0, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "ISO-8859-9":
			return 0, charmap.ISO8859_9.NewDecoder()
		case "ISO-8859-1", "windows-1252":
			return 0, charmap.Windows1252.NewDecoder()
		}
	}

	return 0, charmap.Windows1252.NewDecoder()
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of a peeked sample.
func trimPartialRune(buf []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		c := buf[len(buf)-i]
		if c < utf8.RuneSelf {
			return buf
		}

		if utf8.RuneStart(c) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			return buf
		}
	}

	return buf
}
