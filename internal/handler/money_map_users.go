package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
)

// MoneyMapUserHandler serves membership management for a money map. Listing
// is open to every member; adding and removing users is owner-only, and the
// owner record itself can never be removed.
type MoneyMapUserHandler struct {
	repos *repository.Manager
}

func NewMoneyMapUserHandler(repos *repository.Manager) *MoneyMapUserHandler {
	return &MoneyMapUserHandler{repos: repos}
}

// Find lists the members of a money map with their user details.
func (h *MoneyMapUserHandler) Find(c *gin.Context) {
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

	if err := joinMemberDetails(c.Request.Context(), users, mm); err != nil {
		slog.Error("member detail lookup failed", "money_map_id", mm.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgMemberDetailsFailure)
		return
	}
	outcome.RenderSuccess(c, mm.Users)
}

// Add adds a user, referenced by email, to a money map. Owner-only.
func (h *MoneyMapUserHandler) Add(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	maps, users, ok := h.collections(c)
	if !ok {
		return
	}

	var in models.InMoneyMapUser
	if err := c.ShouldBindJSON(&in); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}

	mm, msg := authorizeMoneyMap(c, maps, callerID)
	if msg != "" {
		outcome.RenderFailure(c, msg)
		return
	}
	if !h.isOwner(mm, callerID) {
		outcome.RenderFailure(c, msgOwnerOnly)
		return
	}

	user, report := in.Validate(c.Request.Context(), users, mm)
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, in)
		return
	}

	if err := maps.AddUser(c.Request.Context(), mm.ID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			outcome.RenderFailure(c, msgMoneyMapNotFound)
			return
		}
		slog.Error("member add failed", "money_map_id", mm.ID.Hex(), "user_id", user.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgMoneyMapSaveFailure)
		return
	}

	mm.Users = append(mm.Users, models.MoneyMapUser{User: models.NewOutUser(*user)})
	if err := joinMemberDetails(c.Request.Context(), users, mm); err != nil {
		slog.Error("member detail lookup failed", "money_map_id", mm.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgMemberDetailsFailure)
		return
	}
	outcome.RenderSuccess(c, mm.Users)
}

// Delete removes a member from a money map. Owner-only, and the owner's own
// record cannot be removed.
func (h *MoneyMapUserHandler) Delete(c *gin.Context) {
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
	if !h.isOwner(mm, callerID) {
		outcome.RenderFailure(c, msgOwnerOnly)
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userID"))
	if err != nil {
		outcome.RenderFailure(c, msgUserInvalidID)
		return
	}
	if userID == callerID {
		outcome.RenderFailure(c, msgOwnerIrremovable)
		return
	}
	if !mm.HasMember(userID) {
		outcome.RenderFailure(c, "User is not a member of this money map")
		return
	}

	if err := maps.RemoveUser(c.Request.Context(), mm.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			outcome.RenderFailure(c, msgMoneyMapNotFound)
			return
		}
		slog.Error("member remove failed", "money_map_id", mm.ID.Hex(), "user_id", userID.Hex(), "error", err)
		outcome.RenderFailure(c, msgMoneyMapSaveFailure)
		return
	}

	remaining := mm.Users[:0]
	for _, mu := range mm.Users {
		if mu.User.ID != userID {
			remaining = append(remaining, mu)
		}
	}
	mm.Users = remaining
	if err := joinMemberDetails(c.Request.Context(), users, mm); err != nil {
		slog.Error("member detail lookup failed", "money_map_id", mm.ID.Hex(), "error", err)
		outcome.RenderFailure(c, msgMemberDetailsFailure)
		return
	}
	outcome.RenderSuccess(c, mm.Users)
}

func (h *MoneyMapUserHandler) isOwner(mm *models.MoneyMap, callerID primitive.ObjectID) bool {
	owner := mm.Owner()
	return owner != nil && owner.User.ID == callerID
}

func (h *MoneyMapUserHandler) collections(c *gin.Context) (*repository.MoneyMapRepository, *repository.UserRepository, bool) {
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
