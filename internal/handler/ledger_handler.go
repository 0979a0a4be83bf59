package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/service"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

func (h *LedgerHandler) parseAmount(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return decimal.Zero, false
	}
	return amount, true
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.ledgerService.Deposit)
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.ledgerService.Withdraw)
}

func (h *LedgerHandler) AdminDeposit(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.ledgerService.AdminDeposit)
}

func (h *LedgerHandler) AdminWithdraw(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.ledgerService.AdminWithdraw)
}

func (h *LedgerHandler) moveCash(w http.ResponseWriter, r *http.Request, op func(string, decimal.Decimal) (*domain.Transaction, error)) {
	amount, ok := h.parseAmount(w, r)
	if !ok {
		return
	}

	tx, err := op(mux.Vars(r)["account_id"], amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

type TransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
}

func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return
	}

	tx, err := h.ledgerService.Transfer(req.FromAccountID, req.ToAccountID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// History serves the ledger queries: all transactions, filtered by account_id,
// or filtered by owner_id. The filters are mutually exclusive; account_id wins.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var txs []*domain.Transaction
	var err error
	switch {
	case query.Get("account_id") != "":
		txs, err = h.ledgerService.HistoryForAccount(query.Get("account_id"))
	case query.Get("owner_id") != "":
		ownerID, parseErr := strconv.ParseInt(query.Get("owner_id"), 10, 64)
		if parseErr != nil || ownerID <= 0 {
			writeError(w, errors.NewAppError(errors.InvalidInput, "owner_id must be a positive integer"))
			return
		}
		txs, err = h.ledgerService.HistoryForOwner(ownerID)
	default:
		txs, err = h.ledgerService.History()
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}
