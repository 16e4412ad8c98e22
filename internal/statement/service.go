package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=statement
type Repository interface {
	GetStatement(ctx context.Context, id uuid.UUID) (*Statement, error)
	ListStatements(ctx context.Context, filter ListFilter) ([]*Statement, error)

	BeginImport(ctx context.Context, accounts []norma43.Account) (ImportTx, error)
}

type ImportTx interface {
	// FindExisting returns the stored statement for the same IBAN and period, or nil.
	FindExisting(ctx context.Context, acc norma43.Account) (*Statement, error)
	CreateStatement(ctx context.Context, st *Statement) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	IBAN      *string
	StartDate *time.Time
	EndDate   *time.Time
}

type ImportResult struct {
	Imported []*Statement
	// Skipped holds the already stored statements matching incoming accounts.
	Skipped []*Statement
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Statement, error) {
	return s.repo.GetStatement(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Statement, error) {
	return s.repo.ListStatements(ctx, filter)
}

// Import stores every parsed account with its entries in a single transaction.
// Accounts already stored for the same IBAN and period are skipped.
func (s *Service) Import(ctx context.Context, accounts []norma43.Account) (*ImportResult, error) {
	if len(accounts) == 0 {
		return &ImportResult{}, nil
	}

	itx, err := s.repo.BeginImport(ctx, accounts)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	result := &ImportResult{}

	for _, acc := range accounts {
		existing, err := itx.FindExisting(ctx, acc)
		if err != nil {
			return nil, fmt.Errorf("find existing %s: %w", acc.IBAN, err)
		}

		if existing != nil {
			result.Skipped = append(result.Skipped, existing)
			continue
		}

		st := &Statement{Account: acc}
		if err := itx.CreateStatement(ctx, st); err != nil {
			return nil, fmt.Errorf("create statement %s: %w", acc.IBAN, err)
		}

		result.Imported = append(result.Imported, st)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}
