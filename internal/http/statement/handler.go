package statement

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/norma43/internal/importer"
	"github.com/MrJamesThe3rd/norma43/internal/norma43"
	"github.com/MrJamesThe3rd/norma43/internal/statement"
)

type Handler struct {
	importSvc      *importer.Service
	statementSvc   *statement.Service
	maxUploadBytes int64
}

func NewHandler(importSvc *importer.Service, statementSvc *statement.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		importSvc:      importSvc,
		statementSvc:   statementSvc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse", h.parse)
	r.Post("/", h.importStatements)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

// parse decodes an uploaded file and returns the accounts without storing them.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	accounts, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, NewAccountResponses(accounts))
}

func (h *Handler) importStatements(w http.ResponseWriter, r *http.Request) {
	accounts, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	result, err := h.statementSvc.Import(r.Context(), accounts)
	if err != nil {
		slog.Error("failed to import statements", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	slog.Info("imported statements", "imported", len(result.Imported), "skipped", len(result.Skipped))

	writeJSON(w, http.StatusCreated, importResponse{
		Imported: toStatementResponseList(result.Imported),
		Skipped:  toStatementResponseList(result.Skipped),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := statement.ListFilter{}

	if s := r.URL.Query().Get("iban"); s != "" {
		filter.IBAN = new(s)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	sts, err := h.statementSvc.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list statements", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	writeJSON(w, http.StatusOK, toStatementResponseList(sts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	st, err := h.statementSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, statement.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "statement not found"})
			return
		}

		slog.Error("failed to get statement", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	writeJSON(w, http.StatusOK, toStatementResponse(st))
}

// readUpload parses the multipart "file" field. On failure the response is
// already written and ok is false.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]norma43.Account, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to parse form: " + err.Error()})
		return nil, false
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatNorma43
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file field is required"})
		return nil, false
	}
	defer file.Close()

	accounts, err := h.importSvc.Import(format, file)
	if err != nil {
		writeImportError(w, err)
		return nil, false
	}

	return accounts, true
}

func writeImportError(w http.ResponseWriter, err error) {
	var lineErr *norma43.LineError

	switch {
	case errors.As(err, &lineErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: err.Error(),
			Line:  new(lineErr.Line),
			Code:  lineErr.Code,
		})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
