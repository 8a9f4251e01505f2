package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bpowers1215/money-map/internal/auth"
	"github.com/bpowers1215/money-map/internal/middleware"
	"github.com/bpowers1215/money-map/internal/models"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
	"github.com/bpowers1215/money-map/internal/session"
	"github.com/bpowers1215/money-map/internal/validation"
)

// UserHandler serves registration, login/logout and profile operations.
type UserHandler struct {
	repos    *repository.Manager
	tokens   *auth.TokenManager
	sessions session.Store
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  models.OutUser `json:"user"`
}

func NewUserHandler(repos *repository.Manager, tokens *auth.TokenManager, sessions session.Store) *UserHandler {
	return &UserHandler{repos: repos, tokens: tokens, sessions: sessions}
}

// Register creates a new user account.
func (h *UserHandler) Register(c *gin.Context) {
	users, err := h.repos.Users()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}
	user.Email = models.NormalizeEmail(user.Email)

	report := user.ValidateForRegistration(c.Request.Context(), users)
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, user.Redacted())
		return
	}

	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		outcome.RenderFailure(c, msgUserCreateFailure)
		return
	}
	user.PasswordHash = hash

	id, err := users.Create(c.Request.Context(), user)
	if err != nil {
		slog.Error("user creation failed", "error", err)
		outcome.RenderFailure(c, msgUserCreateFailure)
		return
	}
	user.ID = id
	outcome.RenderSuccess(c, models.NewOutUser(user))
}

// Login verifies credentials and issues a session token.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}

	report := validation.Struct(&req)
	if !report.IsValid() {
		req.Password = ""
		outcome.RenderInvalid(c, report, req)
		return
	}

	users, err := h.repos.Users()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	user, err := users.FindOneByEmail(c.Request.Context(), req.Email)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		outcome.RenderFailure(c, msgLoginFailure)
		return
	}

	token, err := h.tokens.Generate(*user)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		outcome.RenderFailure(c, msgTokenFailure)
		return
	}
	outcome.RenderSuccess(c, LoginResponse{Token: token, User: models.NewOutUser(*user)})
}

// Logout revokes the caller's session token for the remainder of its
// lifetime.
func (h *UserHandler) Logout(c *gin.Context) {
	tokenID, expiry, ok := middleware.GetTokenID(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), tokenID, time.Until(expiry)); err != nil {
		slog.Error("session revocation failed", "error", err)
		outcome.RenderFailure(c, msgLogoutFailure)
		return
	}
	outcome.RenderSuccess(c, "Successfully logged out")
}

// Profile returns the authenticated caller's public details.
func (h *UserHandler) Profile(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	users, err := h.repos.Users()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	user, err := users.FindOne(c.Request.Context(), bson.M{"_id": callerID})
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}
	if user == nil {
		outcome.RenderFailure(c, msgUserNotFound)
		return
	}
	outcome.RenderSuccess(c, models.NewOutUser(*user))
}

// Modify updates the caller's profile fields and, when a password is
// supplied, the credential hash.
func (h *UserHandler) Modify(c *gin.Context) {
	callerID, ok := resolveSession(c)
	if !ok {
		outcome.RenderFailure(c, msgSessionFailure)
		return
	}

	users, err := h.repos.Users()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		outcome.RenderFailure(c, msgParseFailure)
		return
	}
	user.ID = callerID
	user.Email = models.NormalizeEmail(user.Email)

	report := user.ValidateForUpdate(c.Request.Context(), users)
	if !report.IsValid() {
		outcome.RenderInvalid(c, report, user.Redacted())
		return
	}

	if user.Password != "" {
		hash, err := auth.HashPassword(user.Password)
		if err != nil {
			slog.Error("password hashing failed", "error", err)
			outcome.RenderFailure(c, msgUserUpdateFailure)
			return
		}
		user.PasswordHash = hash
	}

	updated, err := users.Update(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			outcome.RenderFailure(c, msgUserNotFound)
			return
		}
		slog.Error("user update failed", "error", err)
		outcome.RenderFailure(c, msgUserUpdateFailure)
		return
	}
	outcome.RenderSuccess(c, models.NewOutUser(*updated))
}

// FindAll lists the public details of every registered user.
func (h *UserHandler) FindAll(c *gin.Context) {
	users, err := h.repos.Users()
	if err != nil {
		slog.Error("repository unavailable", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	list, err := users.Find(c.Request.Context(), bson.M{})
	if err != nil {
		slog.Error("user listing failed", "error", err)
		outcome.RenderFailure(c, msgDatabaseFailure)
		return
	}

	out := make([]models.OutUser, 0, len(list))
	for _, u := range list {
		out = append(out, models.NewOutUser(u))
	}
	outcome.RenderSuccess(c, out)
}
