package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pocketledger/internal/ledger"
)

type Handler struct {
	engine *ledger.Service
}

func NewHandler(engine *ledger.Service) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})

	r.Get("/summary", h.summary)
}

type transactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Kind        string `json:"type"`
	Category    string `json:"category"`
}

func (req transactionRequest) input() ledger.Input {
	return ledger.Input{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		Kind:        req.Kind,
		Category:    req.Category,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.engine.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.engine.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.engine.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Removed: removed})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.engine.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(result))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Summarize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(s))
}

// filterFromQuery builds a Filter from the optional query parameters. The
// sentinel kind "all" means no kind restriction, like its absence.
func filterFromQuery(r *http.Request) (ledger.Filter, error) {
	var filter ledger.Filter

	q := r.URL.Query()

	if s := q.Get("start_date"); s != "" {
		d, err := ledger.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.StartDate = &d
	}

	if s := q.Get("end_date"); s != "" {
		d, err := ledger.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.EndDate = &d
	}

	if s := q.Get("min_amount"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return filter, err
		}

		filter.MinAmount = &d
	}

	if s := q.Get("max_amount"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return filter, err
		}

		filter.MaxAmount = &d
	}

	if s := q.Get("kind"); s != "" && s != "all" {
		k := ledger.Kind(s)
		filter.Kind = &k
	}

	if s := q.Get("category"); s != "" {
		filter.Category = &s
	}

	return filter, nil
}

func writeError(w http.ResponseWriter, err error) {
	var (
		validationErrs ledger.ValidationErrors
		persistenceErr *ledger.PersistenceError
	)

	switch {
	case errors.As(err, &validationErrs):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: validationErrs})
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrNoSession):
		http.Error(w, "no ledger loaded", http.StatusUnauthorized)
	case errors.As(err, &persistenceErr):
		http.Error(w, "please try again", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
