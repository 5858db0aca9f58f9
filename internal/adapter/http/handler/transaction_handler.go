package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.WalletTransaction, error)
	AttachNote(ctx context.Context, transactionID, note string) (*domain.WalletTransaction, error)
	AttachDetails(ctx context.Context, transactionID string, details map[string]any) (*domain.WalletTransaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	transaction, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// PatchNote sets the note of a transaction.
func (h *TransactionHandler) PatchNote(w http.ResponseWriter, r *http.Request) {
	var req dto.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.AttachNote(r.Context(), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to attach note", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// PatchDetails sets the structured details of a transaction.
func (h *TransactionHandler) PatchDetails(w http.ResponseWriter, r *http.Request) {
	var req dto.DetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.AttachDetails(r.Context(), chi.URLParam(r, "id"), req.Details)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to attach details", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}
