package importer_test

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/norma43/internal/importer"
	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

func TestService_Import(t *testing.T) {
	utf8Data, err := os.ReadFile("testdata/statement.n43")
	require.NoError(t, err)

	latin1Data, err := charmap.ISO8859_1.NewEncoder().Bytes(utf8Data)
	require.NoError(t, err)

	crlfData := []byte(strings.ReplaceAll(string(utf8Data), "\n", "\r\n"))

	type testCase struct {
		name    string
		format  importer.Format
		input   []byte
		wantErr error
	}

	tests := []testCase{
		{name: "UTF8", format: importer.FormatNorma43, input: utf8Data},
		{name: "Latin1", format: importer.FormatNorma43, input: latin1Data},
		{name: "CRLF", format: importer.FormatNorma43, input: crlfData},
		{name: "UnknownFormat", format: "csb34", input: utf8Data, wantErr: importer.ErrUnknownFormat},
		{name: "BrokenFile", format: importer.FormatNorma43, input: []byte("99\n"), wantErr: norma43.ErrInvalidRecordType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := importer.NewService()
			accounts, err := svc.Import(tt.format, bytes.NewReader(tt.input))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, accounts)

				return
			}

			require.NoError(t, err)
			require.Len(t, accounts, 2)
			assert.Equal(t, "ES9121000418450200051332", accounts[0].IBAN)
			assert.Equal(t, "PEÑA GARCÍA", accounts[1].OwnerName)
			assert.Len(t, accounts[0].Entries, 2)
		})
	}
}

func TestService_Import_Latin1AfterLongASCIIPrefix(t *testing.T) {
	utf8Data, err := os.ReadFile("testdata/statement.n43")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(utf8Data), "\n"), "\n")
	entry, concept := lines[4], lines[2]

	// Pad the first account with plain ASCII entries so the first accented
	// byte lands well past any peek window.
	var body []string
	body = append(body, lines[:7]...)
	for range 60 {
		body = append(body, entry, concept)
	}
	body = append(body, lines[7:len(lines)-1]...)
	body = append(body, fmt.Sprintf("88%s%06d", strings.Repeat("9", 18), len(body)))

	latin1Data, err := charmap.ISO8859_1.NewEncoder().String(strings.Join(body, "\n") + "\n")
	require.NoError(t, err)
	require.Greater(t, strings.IndexByte(latin1Data, 0xD1), 4096)

	accounts, err := importer.NewService().Import(importer.FormatNorma43, strings.NewReader(latin1Data))
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Len(t, accounts[0].Entries, 62)
	assert.Equal(t, "PEÑA GARCÍA", accounts[1].OwnerName)
}
