package importer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

type Service struct {
	norma43Importer Importer
}

func NewService() *Service {
	return &Service{
		norma43Importer: NewNorma43Importer(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]norma43.Account, error) {
	var importer Importer

	switch format {
	case FormatNorma43:
		importer = s.norma43Importer
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	accounts, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	entries := 0
	for _, acc := range accounts {
		entries += len(acc.Entries)
	}

	slog.Info("parsed statement file", "format", format, "accounts", len(accounts), "entries", entries)

	return accounts, nil
}
