package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
)

// TransactionHandler serves the transactions nested under an account.
type TransactionHandler struct {
	repos *repository.Manager
}

func NewTransactionHandler(repos *repository.Manager) *TransactionHandler {
	return &TransactionHandler{repos: repos}
}

// Find lists the transactions of an account under a money map the caller
// belongs to.
func (h *TransactionHandler) Find(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, accounts, transactions, ok := h.collections(c)
	if !ok {
		return
	}

	account, msg := authorizeAccount(c, maps, accounts, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	list, err := transactions.Find(c.Request.Context(), bson.M{"account_id": account.ID})
	if err != nil {
		slog.Error("transaction listing failed", "account_id", account.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	outcome.RenderSuccess(c, list)
}

// Create records a transaction on an account under a money map the caller
// belongs to.
func (h *TransactionHandler) Create(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, accounts, transactions, ok := h.collections(c)
	if !ok {
		return
	}

	account, msg := authorizeAccount(c, maps, accounts, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	var transaction models.Transaction
	if err := c.ShouldBindJSON(&transaction); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}

	report := transaction.Validate()
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, transaction)
		return
	}
	if transaction.Datetime.IsZero() {
		transaction.Datetime = time.Now().UTC()
	}

	id, err := transactions.Create(c.Request.Context(), transaction, account.ID)
	if err != nil {
		slog.Error("transaction creation failed", "account_id", account.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgTransactionCreateFailure)
		return
	}
	transaction.ID = id
	transaction.AccountID = account.ID
	outcome.RenderSuccess(c, transaction)
}

func (h *TransactionHandler) collections(c *gin.Context) (*repository.MoneyMapRepository, *repository.AccountRepository, *repository.TransactionRepository, bool) {
	maps, err := h.repos.MoneyMaps()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, nil, false
	}
	accounts, err := h.repos.Accounts()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, nil, false
	}
	transactions, err := h.repos.Transactions()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, nil, false
	}
	return maps, accounts, transactions, true
}
