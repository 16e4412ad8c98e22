package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
	"github.com/MrJamesThe3rd/norma43/internal/statement"
)

// AccountResponse is the JSON shape of a parsed account, shared by the API
// and the command line. Amounts keep the two decimals of the file.
type AccountResponse struct {
	Bank           string           `json:"bank"`
	Office         string           `json:"office"`
	Account        string           `json:"account"`
	Number         string           `json:"number"`
	IBAN           string           `json:"iban"`
	DateStart      string           `json:"date_start"`
	DateEnd        string           `json:"date_end"`
	Type           norma43.Type     `json:"type"`
	BalanceInitial string           `json:"balance_initial"`
	BalanceEnd     *string          `json:"balance_end,omitempty"`
	Currency       string           `json:"currency"`
	Mode           string           `json:"mode"`
	OwnerName      string           `json:"owner_name"`
	Entries        []EntryResponse  `json:"entries,omitempty"`
}

// EntryResponse is the JSON shape of one statement entry.
type EntryResponse struct {
	Office        string            `json:"office"`
	Date          string            `json:"date"`
	DateRaw       string            `json:"date_raw"`
	DateValue     string            `json:"date_value"`
	ConceptCommon string            `json:"concept_common"`
	ConceptOwn    string            `json:"concept_own"`
	Type          norma43.Type      `json:"type"`
	Amount        string            `json:"amount"`
	Document      string            `json:"document,omitempty"`
	Reference1    string            `json:"reference_1,omitempty"`
	Reference2    string            `json:"reference_2,omitempty"`
	Raw           string            `json:"raw"`
	Concepts      map[string]string `json:"concepts"`
	CurrencyEq    string            `json:"currency_eq,omitempty"`
	AmountEq      *string           `json:"amount_eq,omitempty"`
}

type statementResponse struct {
	ID        uuid.UUID       `json:"id"`
	Account   AccountResponse `json:"account"`
	CreatedAt time.Time       `json:"created_at"`
}

type importResponse struct {
	Imported []statementResponse `json:"imported"`
	Skipped  []statementResponse `json:"skipped"`
}

type errorResponse struct {
	Error string `json:"error"`
	Line  *int   `json:"line,omitempty"`
	Code  string `json:"code,omitempty"`
}

func newAccountResponse(acc norma43.Account) AccountResponse {
	resp := AccountResponse{
		Bank:           acc.Bank,
		Office:         acc.Office,
		Account:        acc.Account,
		Number:         acc.Number,
		IBAN:           acc.IBAN,
		DateStart:      acc.DateStart.Format(time.DateOnly),
		DateEnd:        acc.DateEnd.Format(time.DateOnly),
		Type:           acc.Type,
		BalanceInitial: formatAmount(acc.BalanceInitial),
		BalanceEnd:     formatOptionalAmount(acc.BalanceEnd),
		Currency:       acc.Currency,
		Mode:           acc.Mode,
		OwnerName:      acc.OwnerName,
	}

	for _, e := range acc.Entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			Office:        e.Office,
			Date:          e.Date.Format(time.DateOnly),
			DateRaw:       e.DateRaw,
			DateValue:     e.DateValue.Format(time.DateOnly),
			ConceptCommon: e.ConceptCommon,
			ConceptOwn:    e.ConceptOwn,
			Type:          e.Type,
			Amount:        formatAmount(e.Amount),
			Document:      e.Document,
			Reference1:    e.Reference1,
			Reference2:    e.Reference2,
			Raw:           e.Raw,
			Concepts:      e.Concepts,
			CurrencyEq:    e.CurrencyEq,
			AmountEq:      formatOptionalAmount(e.AmountEq),
		})
	}

	return resp
}

// NewAccountResponses maps parsed accounts to their JSON shape.
func NewAccountResponses(accounts []norma43.Account) []AccountResponse {
	resp := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		resp[i] = newAccountResponse(acc)
	}

	return resp
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatOptionalAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}

	return new(formatAmount(*d))
}

func toStatementResponse(st *statement.Statement) statementResponse {
	return statementResponse{
		ID:        st.ID,
		Account:   newAccountResponse(st.Account),
		CreatedAt: st.CreatedAt,
	}
}

func toStatementResponseList(sts []*statement.Statement) []statementResponse {
	resp := make([]statementResponse, len(sts))
	for i, st := range sts {
		resp[i] = toStatementResponse(st)
	}

	return resp
}
