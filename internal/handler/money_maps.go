package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
)

// MoneyMapHandler serves the money map CRUD operations. Every operation is
// scoped to the caller's membership; Delete additionally requires ownership.
type MoneyMapHandler struct {
	repos *repository.Manager
}

func NewMoneyMapHandler(repos *repository.Manager) *MoneyMapHandler {
	return &MoneyMapHandler{repos: repos}
}

// Find lists the money maps the caller belongs to, with member details
// joined in.
func (h *MoneyMapHandler) Find(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, users, ok := h.collections(c)
	if !ok {
		return
	}

	list, err := maps.Find(c.Request.Context(), bson.M{"users.user_id": callerID.Hex()})
	if err != nil {
		slog.Error("money map listing failed", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	for i := range list {
		if err := joinMemberDetails(c.Request.Context(), users, &list[i]); err != nil {
			slog.Error("member detail lookup failed", "money_map_id", list[i].ID.Hex(), "error", err)
			outcome.RenderFailure(c, msgDatabaseFailure)
			return
		}
	}
	outcome.RenderSuccess(c, list)
}

// Create creates a money map owned by the caller.
func (h *MoneyMapHandler) Create(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, users, ok := h.collections(c)
	if !ok {
		return
	}

	var mm models.MoneyMap
	if err := c.ShouldBindJSON(&mm); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}

	report := mm.Validate()
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, mm)
		return
	}

	id, err := maps.Create(c.Request.Context(), mm, callerID)
	if err != nil {
		slog.Error("money map creation failed", "error", err)
		outcome.RenderFailure(c, msgMoneyMapCreateFailure)
		return
	}
	mm.ID = id

	// Echo the seeded membership with the owner's details.
	owner, err := users.FindOne(c.Request.Context(), bson.M{"_id": callerID})
	if err == nil && owner != nil {
		mm.Users = []models.MoneyMapUser{{User: models.NewOutUser(*owner), Owner: true}}
	}
	outcome.RenderSuccess(c, mm)
}

// Update renames a money map the caller belongs to.
func (h *MoneyMapHandler) Update(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, users, ok := h.collections(c)
	if !ok {
		return
	}

	mm, msg := authorizeMoneyMap(c, maps, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}

	var payload models.MoneyMap
	if err := c.ShouldBindJSON(&payload); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}
	payload.ID = mm.ID

	report := payload.Validate()
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, payload)
		return
	}

	updated, err := maps.Update(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			outcome.RenderFailure(c, msgMoneyMapNotFound)
			return
		}
		slog.Error("money map update failed", "money_map_id", mm.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgMoneyMapSaveFailure)
		return
	}

	if err := joinMemberDetails(c.Request.Context(), users, updated); err != nil {
		slog.Error("member detail lookup failed", "money_map_id", updated.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	outcome.RenderSuccess(c, updated)
}

// Delete soft-deletes a money map. Only the owner's delete matches; everyone
// else gets the same generic failure.
func (h *MoneyMapHandler) Delete(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, err := h.repos.MoneyMaps()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	mmID, err := primitive.ObjectIDFromHex(c.Param("mmID"))
	if err != nil {
		outcome.RenderFailure(c, msgMoneyMapInvalidID)
		return
	}

	if err := maps.Delete(c.Request.Context(), mmID, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			outcome.RenderFailure(c, msgMoneyMapDeleteFailure)
			return
		}
		slog.Error("money map delete failed", "money_map_id", mmID.Hex(), "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	outcome.RenderSuccess(c, msgMoneyMapDeleted)
}

// collections resolves the repositories this handler needs, rendering the
// database failure itself when the connection is down.
func (h *MoneyMapHandler) collections(c *gin.Context) (*repository.MoneyMapRepository, *repository.UserRepository, bool) {
	maps, err := h.repos.MoneyMaps()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, false
	}
	users, err := h.repos.Users()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return nil, nil, false
	}
	return maps, users, true
}
