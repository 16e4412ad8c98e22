package statement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
	"github.com/MrJamesThe3rd/norma43/internal/statement"
)

func account(ibanCode string) norma43.Account {
	return norma43.Account{
		IBAN:           ibanCode,
		DateStart:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Type:           norma43.TypeCredit,
		BalanceInitial: decimal.RequireFromString("100.00"),
		Currency:       "EUR",
		Entries: []norma43.Entry{
			{Amount: decimal.RequireFromString("25.00"), Type: norma43.TypeDebit, Concepts: map[string]string{}},
		},
	}
}

func TestService_Import(t *testing.T) {
	first := account("ES9121000418450200051332")
	second := account("ES7620770024003102575766")
	existing := &statement.Statement{ID: uuid.New(), Account: second}

	type testCase struct {
		name         string
		accounts     []norma43.Account
		setupMock    func(repo *statement.MockRepository, itx *statement.MockImportTx)
		wantImported int
		wantSkipped  int
		wantErr      bool
	}

	tests := []testCase{
		{
			name:     "AllNew",
			accounts: []norma43.Account{first, second},
			setupMock: func(repo *statement.MockRepository, itx *statement.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Len(2)).Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
				itx.EXPECT().
					CreateStatement(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, st *statement.Statement) error {
						st.ID = uuid.New()
						st.CreatedAt = time.Now()
						return nil
					}).
					Times(2)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
			wantImported: 2,
		},
		{
			name:     "SkipsExisting",
			accounts: []norma43.Account{first, second},
			setupMock: func(repo *statement.MockRepository, itx *statement.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), first).Return(nil, nil)
				itx.EXPECT().FindExisting(gomock.Any(), second).Return(existing, nil)
				itx.EXPECT().CreateStatement(gomock.Any(), gomock.Any()).Return(nil).Times(1)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
			wantImported: 1,
			wantSkipped:  1,
		},
		{
			name:     "CreateFails",
			accounts: []norma43.Account{first},
			setupMock: func(repo *statement.MockRepository, itx *statement.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return(nil, nil)
				itx.EXPECT().CreateStatement(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: true,
		},
		{
			name:     "BeginFails",
			accounts: []norma43.Account{first},
			setupMock: func(repo *statement.MockRepository, _ *statement.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(nil, errors.New("lock error"))
			},
			wantErr: true,
		},
		{
			name:      "NoAccounts",
			accounts:  nil,
			setupMock: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := statement.NewMockRepository(ctrl)
			itx := statement.NewMockImportTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, itx)
			}

			svc := statement.NewService(repo)
			got, err := svc.Import(context.Background(), tt.accounts)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Imported, tt.wantImported)
			assert.Len(t, got.Skipped, tt.wantSkipped)

			for _, st := range got.Imported {
				assert.Len(t, st.Account.Entries, 1)
			}
		})
	}
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := statement.NewMockRepository(ctrl)
	repo.EXPECT().GetStatement(gomock.Any(), id).Return(nil, statement.ErrNotFound)

	svc := statement.NewService(repo)
	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, statement.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ibanCode := "ES9121000418450200051332"
	filter := statement.ListFilter{IBAN: &ibanCode}

	repo := statement.NewMockRepository(ctrl)
	repo.EXPECT().
		ListStatements(gomock.Any(), filter).
		Return([]*statement.Statement{{ID: uuid.New(), Account: account(ibanCode)}}, nil)

	svc := statement.NewService(repo)
	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ibanCode, got[0].Account.IBAN)
}
