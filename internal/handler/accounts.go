package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
)

// AccountHandler serves the accounts nested under a money map.
type AccountHandler struct {
	repos *repository.Manager
}

func NewAccountHandler(repos *repository.Manager) *AccountHandler {
	return &AccountHandler{repos: repos}
}

// Find lists the accounts of a money map the caller belongs to.
func (h *AccountHandler) Find(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, accounts, ok := h.collections(c)
	if !ok {
		return
	}

	mm, msg := authorizeMoneyMap(c, maps, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	list, err := accounts.Find(c.Request.Context(), bson.M{"money_map_id": mm.ID})
	if err != nil {
		slog.Error("account listing failed", "money_map_id", mm.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	outcome.RenderSuccess(c, list)
}

// Create adds an account to a money map the caller belongs to.
func (h *AccountHandler) Create(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, accounts, ok := h.collections(c)
	if !ok {
		return
	}

	mm, msg := authorizeMoneyMap(c, maps, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	var account models.Account
	if err := c.ShouldBindJSON(&account); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}

	report := account.Validate()
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, account)
		return
	}

	id, err := accounts.Create(c.Request.Context(), account, mm.ID)
	if err != nil {
		slog.Error("account creation failed", "money_map_id", mm.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgAccountCreateFailure)
		return
	}
	account.ID = id
	account.MoneyMapID = mm.ID
	outcome.RenderSuccess(c, account)
}

func (h *AccountHandler) collections(c *gin.Context) (*repository.MoneyMapRepository, *repository.AccountRepository, bool) {
	maps, err := h.repos.MoneyMaps()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, false
	}
	accounts, err := h.repos.Accounts()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, false
	}
	return maps, accounts, true
}
