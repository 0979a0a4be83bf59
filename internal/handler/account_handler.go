package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	OwnerName      string `json:"owner_name"`
	OwnerID        int64  `json:"owner_id"`
	AccountType    string `json:"account_type"`
	InitialDeposit string `json:"initial_deposit"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	initialDeposit := decimal.Zero
	if req.InitialDeposit != "" {
		var err error
		initialDeposit, err = decimal.NewFromString(req.InitialDeposit)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid initial_deposit format"))
			return
		}
	}

	var account *domain.Account
	var err error
	switch domain.AccountType(strings.ToUpper(req.AccountType)) {
	case domain.Checking:
		account, err = h.accountService.CreateChecking(req.OwnerName, req.OwnerID, initialDeposit)
	case domain.Saving:
		account, err = h.accountService.CreateSavings(req.OwnerName, req.OwnerID, initialDeposit)
	default:
		writeError(w, errors.NewAppError(errors.InvalidInput, "account_type must be CHECKING or SAVING"))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	account, err := h.accountService.Get(vars["account_id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// ListAccounts returns the owner's accounts when owner_id is given, and every
// account in the system otherwise (the admin path).
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []*domain.Account
	var err error

	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || ownerID <= 0 {
			writeError(w, errors.NewAppError(errors.InvalidInput, "owner_id must be a positive integer"))
			return
		}
		accounts, err = h.accountService.ListForOwner(ownerID)
	} else {
		accounts, err = h.accountService.ListAll()
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponses(accounts))
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.accountService.Delete(vars["account_id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
