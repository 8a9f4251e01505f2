package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
)

// StatementHandler serves the balance statements nested under an account.
type StatementHandler struct {
	repos *repository.Manager
}

func NewStatementHandler(repos *repository.Manager) *StatementHandler {
	return &StatementHandler{repos: repos}
}

// Find lists the statements of an account under a money map the caller
// belongs to.
func (h *StatementHandler) Find(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, accounts, statements, ok := h.collections(c)
	if !ok {
		return
	}

	account, msg := authorizeAccount(c, maps, accounts, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	list, err := statements.Find(c.Request.Context(), bson.M{"account_id": account.ID})
	if err != nil {
		slog.Error("statement listing failed", "account_id", account.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	outcome.RenderSuccess(c, list)
}

// Create records a balance statement on an account under a money map the
// caller belongs to.
func (h *StatementHandler) Create(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, accounts, statements, ok := h.collections(c)
	if !ok {
		return
	}

	account, msg := authorizeAccount(c, maps, accounts, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	var statement models.AccountStatement
	if err := c.ShouldBindJSON(&statement); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}

	report := statement.Validate()
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, statement)
		return
	}

	id, err := statements.Create(c.Request.Context(), statement, account.ID)
	if err != nil {
		slog.Error("statement creation failed", "account_id", account.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgStatementCreateFailure)
		return
	}
	statement.ID = id
	statement.AccountID = account.ID
	outcome.RenderSuccess(c, statement)
}

func (h *StatementHandler) collections(c *gin.Context) (*repository.MoneyMapRepository, *repository.AccountRepository, *repository.StatementRepository, bool) {
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
	statements, err := h.repos.Statements()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, nil, false
	}
	return maps, accounts, statements, true
}
