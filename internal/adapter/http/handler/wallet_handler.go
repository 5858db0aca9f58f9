package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// rangeTotalCacheTTL bounds staleness of cached windowed folds.
const rangeTotalCacheTTL = 30 * time.Second

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	OpenWallet(ctx context.Context, input usecase.OpenWalletInput) (*domain.Wallet, error)
	FindWallets(ctx context.Context, owner domain.Owner) ([]*domain.Wallet, error)
	FindWallet(ctx context.Context, owner domain.Owner, currency string) (*domain.Wallet, error)
	Select(ctx context.Context, owner domain.Owner, currency string) (*usecase.WalletSession, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.WalletTransaction, error)
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
	cache    usecase.Cache
}

// NewWalletHandler creates a new WalletHandler. cache may be nil to disable
// caching of windowed total folds.
func NewWalletHandler(walletUC WalletService, cache usecase.Cache) *WalletHandler {
	return &WalletHandler{walletUC: walletUC, cache: cache}
}

// Open opens a wallet for the owner.
func (h *WalletHandler) Open(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	var req dto.OpenWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.OpenWallet(r.Context(), req.ToUseCaseInput(owner))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// List lists the owner's wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	wallets, err := h.walletUC.FindWallets(r.Context(), owner)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWalletsResponse{
		Wallets: dto.WalletsFromDomain(wallets),
		Total:   int64(len(wallets)),
	})
}

// Get retrieves the owner's wallet for a currency.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	wallet, err := h.walletUC.FindWallet(r.Context(), owner, chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Income records an income transaction.
func (h *WalletHandler) Income(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, true)
}

// Outcome records an outcome transaction.
func (h *WalletHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, false)
}

func (h *WalletHandler) record(w http.ResponseWriter, r *http.Request, income bool) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.walletUC.Select(r.Context(), owner, chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to select wallet", err.Error())
		return
	}

	var transaction *domain.WalletTransaction
	if income {
		transaction, err = session.Income(r.Context(), req.Amount)
	} else {
		transaction, err = session.Outcome(r.Context(), req.Amount)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Total returns the wallet total: the cached column, or a since-fold when the
// since query parameter is given.
func (h *WalletHandler) Total(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	since, err := parseTimeQuery(r, "since")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid since parameter", err.Error())
		return
	}

	session, err := h.walletUC.Select(r.Context(), owner, chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to select wallet", err.Error())
		return
	}

	total, err := session.CurrentTotal(r.Context(), since)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute total", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTotalResponse(session.Wallet(), total, parseBoolQuery(r, "pretty")))
}

// TotalRange returns the fold of transactions within [from, to]. Results are
// cached briefly, the window fold being a full ledger scan.
func (h *WalletHandler) TotalRange(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	from, err := parseTimeQuery(r, "from")
	if err != nil || from == nil {
		writeError(w, http.StatusBadRequest, "invalid from parameter", "")
		return
	}

	to, err := parseTimeQuery(r, "to")
	if err != nil || to == nil {
		writeError(w, http.StatusBadRequest, "invalid to parameter", "")
		return
	}

	session, err := h.walletUC.Select(r.Context(), owner, chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to select wallet", err.Error())
		return
	}

	// Only closed windows are memoized: a window reaching into the future
	// could still receive entries, and its fold must stay live.
	cacheable := to.Before(time.Now())

	var total decimal.Decimal
	ok := false
	if cacheable {
		total, ok = h.cachedRangeTotal(r.Context(), session.Wallet().ID, *from, *to)
	}
	if !ok {
		total, err = session.TotalBetween(r.Context(), *from, *to)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to compute total", err.Error())
			return
		}

		if cacheable {
			h.storeRangeTotal(r.Context(), session.Wallet().ID, *from, *to, total)
		}
	}

	writeJSON(w, http.StatusOK, dto.NewTotalResponse(session.Wallet(), total, parseBoolQuery(r, "pretty")))
}

// ListTransactions lists the wallet's transactions oldest first.
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner", err.Error())
		return
	}

	wallet, err := h.walletUC.FindWallet(r.Context(), owner, chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	transactions, err := h.walletUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		WalletID: wallet.ID,
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
		Total:        int64(len(transactions)),
	})
}

func (h *WalletHandler) cachedRangeTotal(ctx context.Context, walletID string, from, to time.Time) (decimal.Decimal, bool) {
	if h.cache == nil {
		return decimal.Zero, false
	}

	val, err := h.cache.Get(ctx, rangeTotalKey(walletID, from, to))
	if err != nil {
		return decimal.Zero, false
	}

	total, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false
	}

	return total, true
}

func (h *WalletHandler) storeRangeTotal(ctx context.Context, walletID string, from, to time.Time, total decimal.Decimal) {
	if h.cache == nil {
		return
	}

	// Best effort; a cache failure must not fail the request.
	_ = h.cache.Set(ctx, rangeTotalKey(walletID, from, to), total.String(), rangeTotalCacheTTL)
}

func rangeTotalKey(walletID string, from, to time.Time) string {
	return fmt.Sprintf("total:range:%s:%d:%d", walletID, from.Unix(), to.Unix())
}
