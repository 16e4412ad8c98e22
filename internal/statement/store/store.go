package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
	"github.com/MrJamesThe3rd/norma43/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectStatementColumns = `
	s.id, s.bank, s.office, s.account_number, s.number, s.iban, s.date_start, s.date_end,
	s.type, s.balance_initial, s.balance_end, s.currency, s.mode, s.owner_name, s.created_at
`

// scanStatement reads a statement row without its entries.
// Expected column order: selectStatementColumns.
func scanStatement(s scanner) (*statement.Statement, error) {
	var (
		st         statement.Statement
		typeStr    string
		balanceEnd decimal.NullDecimal
	)

	acc := &st.Account

	if err := s.Scan(
		&st.ID, &acc.Bank, &acc.Office, &acc.Account, &acc.Number, &acc.IBAN, &acc.DateStart, &acc.DateEnd,
		&typeStr, &acc.BalanceInitial, &balanceEnd, &acc.Currency, &acc.Mode, &acc.OwnerName, &st.CreatedAt,
	); err != nil {
		return nil, err
	}

	acc.Type = norma43.Type(typeStr)

	if balanceEnd.Valid {
		acc.BalanceEnd = &balanceEnd.Decimal
	}

	return &st, nil
}

const selectEntryColumns = `
	e.office, e.date, e.date_raw, e.date_value, e.concept_common, e.concept_own, e.type, e.amount,
	e.document, e.reference_1, e.reference_2, e.raw, e.concepts, e.currency_eq, e.amount_eq
`

func scanEntry(s scanner) (norma43.Entry, error) {
	var (
		e        norma43.Entry
		typeStr  string
		concepts []byte
		amountEq decimal.NullDecimal
	)

	if err := s.Scan(
		&e.Office, &e.Date, &e.DateRaw, &e.DateValue, &e.ConceptCommon, &e.ConceptOwn, &typeStr, &e.Amount,
		&e.Document, &e.Reference1, &e.Reference2, &e.Raw, &concepts, &e.CurrencyEq, &amountEq,
	); err != nil {
		return norma43.Entry{}, err
	}

	e.Type = norma43.Type(typeStr)

	e.Concepts = make(map[string]string)
	if len(concepts) > 0 {
		if err := json.Unmarshal(concepts, &e.Concepts); err != nil {
			return norma43.Entry{}, fmt.Errorf("decoding concepts: %w", err)
		}
	}

	if amountEq.Valid {
		e.AmountEq = &amountEq.Decimal
	}

	return e, nil
}

func (s *Store) GetStatement(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	query := `SELECT ` + selectStatementColumns + `
		FROM statements s
		WHERE s.id = $1`

	st, err := scanStatement(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("getting statement: %w", err)
	}

	entries, err := listEntries(ctx, s.db, st.ID)
	if err != nil {
		return nil, err
	}

	st.Account.Entries = entries

	return st, nil
}

func listEntries(ctx context.Context, q querier, statementID uuid.UUID) ([]norma43.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM statement_entries e
		WHERE e.statement_id = $1
		ORDER BY e.position ASC`

	rows, err := q.QueryContext(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []norma43.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry rows: %w", err)
	}

	return entries, nil
}

func (s *Store) ListStatements(ctx context.Context, filter statement.ListFilter) ([]*statement.Statement, error) {
	query := `SELECT ` + selectStatementColumns + `
		FROM statements s
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.IBAN != nil {
		query += fmt.Sprintf(" AND s.iban = $%d", argIdx)

		args = append(args, *filter.IBAN)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND s.date_end >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND s.date_start <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY s.date_start ASC, s.iban ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing statements: %w", err)
	}
	defer rows.Close()

	var statements []*statement.Statement

	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning statement: %w", err)
		}

		statements = append(statements, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating statement rows: %w", err)
	}

	return statements, nil
}

// importLockKeys returns one advisory lock key per distinct account period, sorted
// so concurrent imports always acquire them in the same order.
func importLockKeys(accounts []norma43.Account) []int64 {
	keys := make([]int64, 0, len(accounts))

	for _, acc := range accounts {
		h := fnv.New64a()
		h.Write([]byte(acc.IBAN))
		h.Write([]byte{0})
		h.Write([]byte(acc.DateStart.Format(time.DateOnly)))
		h.Write([]byte{0})
		h.Write([]byte(acc.DateEnd.Format(time.DateOnly)))

		keys = append(keys, int64(h.Sum64()))
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, accounts []norma43.Account) (statement.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	for _, key := range importLockKeys(accounts) {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
			dbTx.Rollback()
			return nil, fmt.Errorf("acquiring import lock: %w", err)
		}
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindExisting(ctx context.Context, acc norma43.Account) (*statement.Statement, error) {
	query := `SELECT ` + selectStatementColumns + `
		FROM statements s
		WHERE s.iban = $1 AND s.date_start = $2 AND s.date_end = $3`

	st, err := scanStatement(itx.tx.QueryRowContext(ctx, query, acc.IBAN, acc.DateStart, acc.DateEnd))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding statement: %w", err)
	}

	return st, nil
}

func (itx *importTx) CreateStatement(ctx context.Context, st *statement.Statement) error {
	acc := &st.Account

	query := `
		INSERT INTO statements (bank, office, account_number, number, iban, date_start, date_end,
			type, balance_initial, balance_end, currency, mode, owner_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING id, created_at
	`

	err := itx.tx.QueryRowContext(ctx, query,
		acc.Bank,
		acc.Office,
		acc.Account,
		acc.Number,
		acc.IBAN,
		acc.DateStart,
		acc.DateEnd,
		acc.Type,
		acc.BalanceInitial,
		nullDecimal(acc.BalanceEnd),
		acc.Currency,
		acc.Mode,
		acc.OwnerName,
	).Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating statement: %w", err)
	}

	entryQuery := `
		INSERT INTO statement_entries (statement_id, position, office, date, date_raw, date_value,
			concept_common, concept_own, type, amount, document, reference_1, reference_2, raw,
			concepts, currency_eq, amount_eq)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	for i, e := range acc.Entries {
		concepts, err := json.Marshal(e.Concepts)
		if err != nil {
			return fmt.Errorf("encoding concepts: %w", err)
		}

		if _, err := itx.tx.ExecContext(ctx, entryQuery,
			st.ID,
			i,
			e.Office,
			e.Date,
			e.DateRaw,
			e.DateValue,
			e.ConceptCommon,
			e.ConceptOwn,
			e.Type,
			e.Amount,
			e.Document,
			e.Reference1,
			e.Reference2,
			e.Raw,
			string(concepts),
			e.CurrencyEq,
			nullDecimal(e.AmountEq),
		); err != nil {
			return fmt.Errorf("creating entry %d: %w", i, err)
		}
	}

	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
