// Package handler implements the controller layer. Every operation is a flat
// pipeline of result-returning steps with early exit on the first failure:
// resolve session, authorize the target through a membership-scoped lookup,
// parse the body, validate, persist, and render exactly one outcome.
package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bpowers1215/money-map/internal/middleware"
	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/repository"
)

// resolveSession extracts the authenticated caller's id from the request
// context.
func resolveSession(c *gin.Context) (primitive.ObjectID, bool) {
	hex, ok := middleware.GetUserID(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// authorizeMoneyMap runs the shared pipeline prefix of every money-map-scoped
// operation: parse the mmID route param, then look the map up filtered by id,
// caller membership and the soft-delete flag. The empty message means
// success. Lookup errors and misses share one generic message so that
// existence is not observable to non-members.
func authorizeMoneyMap(c *gin.Context, maps *repository.MoneyMapRepository, callerID primitive.ObjectID) (*models.MoneyMap, string) {
	mmID, err := primitive.ObjectIDFromHex(c.Param("mmID"))
	if err != nil {
		return nil, msgMoneyMapInvalidID
	}
	return lookupMoneyMap(c.Request.Context(), maps, mmID, callerID)
}

// lookupMoneyMap fetches a money map by id, conjoined with the caller's
// membership predicate.
func lookupMoneyMap(ctx context.Context, maps *repository.MoneyMapRepository, mmID, callerID primitive.ObjectID) (*models.MoneyMap, string) {
	mm, err := maps.FindOne(ctx, bson.M{
		"_id":           mmID,
		"users.user_id": callerID.Hex(),
	})
	if err != nil {
		slog.Error("money map lookup failed", "money_map_id", mmID.Hex(), "error", err)
		return nil, msgMoneyMapNotFound
	}
	if mm == nil {
		return nil, msgMoneyMapNotFound
	}
	return mm, ""
}

// authorizeAccount extends authorizeMoneyMap down one level: the accountID
// route param must name a live account under the authorized map.
func authorizeAccount(c *gin.Context, maps *repository.MoneyMapRepository, accounts *repository.AccountRepository, callerID primitive.ObjectID) (*models.Account, string) {
	mm, msg := authorizeMoneyMap(c, maps, callerID)
	if msg != "" {
		return nil, msg
	}
	accountID, err := primitive.ObjectIDFromHex(c.Param("accountID"))
	if err != nil {
		return nil, msgAccountInvalidID
	}
	account, err := accounts.FindOne(c.Request.Context(), bson.M{
		"_id":          accountID,
		"money_map_id": mm.ID,
	})
	if err != nil {
		slog.Error("account lookup failed", "account_id", accountID.Hex(), "error", err)
		return nil, msgAccountNotFound
	}
	if account == nil {
		return nil, msgAccountNotFound
	}
	return account, ""
}

// joinMemberDetails replaces the id-only membership entries of mm with the
// referenced users' public details, preserving the owner flags. Members whose
// user record cannot be found keep their id-only entry.
func joinMemberDetails(ctx context.Context, users *repository.UserRepository, mm *models.MoneyMap) error {
	if len(mm.Users) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(mm.Users))
	for _, mu := range mm.Users {
		ids = append(ids, mu.User.ID)
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	joined := make([]models.MoneyMapUser, 0, len(mm.Users))
	for _, mu := range mm.Users {
		if u, ok := byID[mu.User.ID]; ok {
			joined = append(joined, models.MoneyMapUser{User: models.NewOutUser(u), Owner: mu.Owner})
		} else {
			joined = append(joined, mu)
		}
	}
	mm.Users = joined
	return nil
}
