package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/norma43/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "11210004180200051332PEÑA GARCÍA\n2301RECIBO AÑO 2024\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// "PEÑA" in Latin-1: Ñ = 0xD1.
	latin1Bytes := []byte{'2', '3', '0', '1', 'P', 'E', 0xD1, 'A', '\n'}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "2301PEÑA\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	input := append(bom, []byte("2301CAFÉ\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "2301CAFÉ\n", string(got))
}

func TestNewUTF8Reader_LargeLatin1(t *testing.T) {
	line := "2301" + strings.Repeat("X", 70) + "ÑANDÚ\n"

	encoded, err := charmap.ISO8859_1.NewEncoder().String(strings.Repeat(line, 200))
	require.NoError(t, err)

	r, err := encoding.NewUTF8Reader(strings.NewReader(encoded))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(line, 200), string(got))
}

func TestNormalize(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{name: "CRLF", input: []byte("11A\r\n22B\r\n"), want: "11A\n22B\n"},
		{name: "BareCR", input: []byte("11A\r22B\r"), want: "11A\n22B\n"},
		{name: "LF", input: []byte("11A\n22B\n"), want: "11A\n22B\n"},
		{name: "Latin1", input: []byte{'2', '3', 'C', 0xC9, '\r', '\n'}, want: "23CÉ\n"},
		{name: "Empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoding.Normalize(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Latin1AfterPeekWindow(t *testing.T) {
	prefix := strings.Repeat("2301"+strings.Repeat("X", 76)+"\r\n", 80)
	input := append([]byte(prefix), '2', '3', '0', '1', 'P', 'E', 0xD1, 'A', '\r', '\n')

	got, err := encoding.Normalize(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(prefix, "\r\n", "\n")+"2301PEÑA\n", got)
}

func TestNormalize_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("2301CAFÉ\r\n")...)

	got, err := encoding.Normalize(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "2301CAFÉ\n", got)
}
