package norma43

import (
	"strings"
)

const noCursor = -1

// parser holds the state of a single parse. The cursors are indexes into
// accounts and into the current account's entries.
type parser struct {
	accounts []Account
	account  int
	entry    int
	records  int
}

// Parse decodes the content of an N43 file. The content must already be
// text, one record per line. Parsing stops at the first error and returns no
// accounts in that case.
func Parse(content string) ([]Account, error) {
	p := &parser{account: noCursor, entry: noCursor}

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		code := field(line, 0, 2)

		done, err := p.process(code, line)
		if err != nil {
			return nil, &LineError{Line: i, Code: code, Err: err}
		}

		if done {
			break
		}

		p.records++
	}

	return p.accounts, nil
}

// process applies one record and reports whether the file trailer was reached.
func (p *parser) process(code, line string) (bool, error) {
	switch parseRecordCode(code) {
	case RecordAccountHeader:
		return false, p.openAccount(line)
	case RecordEntry:
		return false, p.openEntry(line)
	case RecordConcept:
		e, err := p.currentEntry()
		if err != nil {
			return false, err
		}

		applyConcept(e, line)

		return false, nil
	case RecordEquivalence:
		e, err := p.currentEntry()
		if err != nil {
			return false, err
		}

		return false, applyEquivalence(e, line)
	case RecordAccountTrailer:
		return false, p.closeAccount(line)
	case RecordFileTrailer:
		return true, p.checkCount(line)
	default:
		// parseRecordCode folds every other code into recordCodeUnsupported.
		return false, ErrInvalidRecordType
	}
}

func (p *parser) openAccount(line string) error {
	acc, err := decodeAccount(line)
	if err != nil {
		return err
	}

	p.accounts = append(p.accounts, acc)
	p.account = len(p.accounts) - 1
	p.entry = noCursor

	return nil
}

func (p *parser) openEntry(line string) error {
	if p.account == noCursor {
		return ErrMissingAccountContext
	}

	e, err := decodeEntry(line)
	if err != nil {
		return err
	}

	acc := &p.accounts[p.account]
	acc.Entries = append(acc.Entries, e)
	p.entry = len(acc.Entries) - 1

	return nil
}

func (p *parser) currentEntry() (*Entry, error) {
	if p.account == noCursor || p.entry == noCursor {
		return nil, ErrMissingEntryContext
	}

	return &p.accounts[p.account].Entries[p.entry], nil
}

func (p *parser) closeAccount(line string) error {
	if p.account == noCursor {
		return ErrMissingAccountContext
	}

	if err := applyTrailer(&p.accounts[p.account], line); err != nil {
		return err
	}

	p.account = noCursor
	p.entry = noCursor

	return nil
}

// checkCount compares the trailer's declared count with the records seen before it.
func (p *parser) checkCount(line string) error {
	declared, err := decodeRecordCount(line)
	if err != nil {
		return err
	}

	if declared != p.records {
		return &CountMismatchError{Declared: declared, Actual: p.records}
	}

	return nil
}
