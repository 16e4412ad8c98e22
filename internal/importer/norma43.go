package importer

import (
	"fmt"
	"io"

	enc "github.com/MrJamesThe3rd/norma43/internal/encoding"
	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

// Norma43Importer reads AEB Norma 43 statement files. Input in Latin-1 or
// any other detectable charset is converted to UTF-8 before parsing.
type Norma43Importer struct{}

func NewNorma43Importer() *Norma43Importer {
	return &Norma43Importer{}
}

func (i *Norma43Importer) Parse(r io.Reader) ([]norma43.Account, error) {
	content, err := enc.Normalize(r)
	if err != nil {
		return nil, fmt.Errorf("normalize input: %w", err)
	}

	accounts, err := norma43.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse n43: %w", err)
	}

	return accounts, nil
}
