package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"kharcha/internal/core"
)

// maxBodyBytes caps request bodies; transaction payloads are tiny.
const maxBodyBytes = 1 << 16

type transactionList struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

type summaryResponse struct {
	Currency   string            `json:"currency"`
	Income     core.Money        `json:"income"`
	Expense    core.Money        `json:"expense"`
	Balance    core.Money        `json:"balance"`
	UsageRatio float64           `json:"usage_ratio"`
	Last       *core.Transaction `json:"last_transaction,omitempty"`
}

type categoryAmount struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

type settingsResponse struct {
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
	UserName string `json:"user_name"`
}

type settingsRequest struct {
	Currency *string `json:"currency"`
	Theme    *string `json:"theme"`
	UserName *string `json:"user_name"`
}

func (h Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h Handlers) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := h.Ledger.Add(r.Context(), tx)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidType):
			writeError(w, http.StatusBadRequest, "type must be income or expense")
		case errors.Is(err, core.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "amount must be a non-negative number")
		case errors.Is(err, core.ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

func (h Handlers) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	snap := h.Ledger.Snapshot()
	writeJSON(w, http.StatusOK, transactionList{Transactions: snap, Count: len(snap)})
}

func (h Handlers) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}
	// Unknown ids are a no-op by design, reported but not an error.
	deleted := h.Ledger.DeleteByID(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (h Handlers) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	h.Ledger.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) handleSummary(w http.ResponseWriter, _ *http.Request) {
	t := h.Reports.Totals()
	writeJSON(w, http.StatusOK, summaryResponse{
		Currency:   h.Settings.Currency(),
		Income:     t.Income,
		Expense:    t.Expense,
		Balance:    t.Balance,
		UsageRatio: t.UsageRatio,
		Last:       t.Last,
	})
}

func (h Handlers) handleCategories(w http.ResponseWriter, _ *http.Request) {
	byCat := h.Reports.ByCategory()
	out := make([]categoryAmount, 0, len(byCat))
	for c, amount := range byCat {
		out = append(out, categoryAmount{Category: c, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"currency":   h.Settings.Currency(),
		"categories": out,
	})
}

func (h Handlers) handleCalendar(w http.ResponseWriter, r *http.Request) {
	byDate := h.Reports.ByDate()
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		txs := byDate[date]
		if txs == nil {
			txs = []core.Transaction{}
		}
		writeJSON(w, http.StatusOK, transactionList{Transactions: txs, Count: len(txs)})
		return
	}
	writeJSON(w, http.StatusOK, byDate)
}

func (h Handlers) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, settingsResponse{
		Currency: h.Settings.Currency(),
		Theme:    h.Settings.Theme(),
		UserName: h.Settings.UserName(),
	})
}

func (h Handlers) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	if req.Currency != nil {
		if err := h.Settings.SetCurrency(ctx, *req.Currency); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Theme != nil {
		if err := h.Settings.SetTheme(ctx, *req.Theme); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.UserName != nil {
		if err := h.Settings.SetUserName(ctx, *req.UserName); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	h.handleGetSettings(w, r)
}

func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
