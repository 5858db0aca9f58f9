package handler

import (
	"context"
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	CheckWallet(ctx context.Context, walletID string) (*usecase.ReconciliationResult, error)
	CheckAll(ctx context.Context) ([]*usecase.ReconciliationResult, error)
}

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Check reconciles every wallet, or a single one when the wallet_id query
// parameter is given.
func (h *ReconciliationHandler) Check(w http.ResponseWriter, r *http.Request) {
	if walletID := r.URL.Query().Get("wallet_id"); walletID != "" {
		result, err := h.reconciliationUC.CheckWallet(r.Context(), walletID)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to reconcile wallet", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))

		return
	}

	results, err := h.reconciliationUC.CheckAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromResults(results))
}
