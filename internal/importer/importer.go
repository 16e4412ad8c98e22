package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

type Format string

const (
	FormatNorma43 Format = "n43"
)

var ErrUnknownFormat = errors.New("unknown statement format")

type Importer interface {
	Parse(r io.Reader) ([]norma43.Account, error)
}
