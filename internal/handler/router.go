package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bpowers1215/money-map/internal/auth"
	"github.com/bpowers1215/money-map/internal/middleware"
	"github.com/bpowers1215/money-map/internal/outcome"
	"github.com/bpowers1215/money-map/internal/repository"
	"github.com/bpowers1215/money-map/internal/session"
)

// NewRouter builds the gin engine with every route wired up. The public
// surface is registration, login and the welcome banner; everything else
// requires a valid session token.
func NewRouter(repos *repository.Manager, tokens *auth.TokenManager, sessions session.Store) *gin.Engine {
	users := NewUserHandler(repos, tokens, sessions)
	moneyMaps := NewMoneyMapHandler(repos)
	members := NewMoneyMapUserHandler(repos)
	accounts := NewAccountHandler(repos)
	transactions := NewTransactionHandler(repos)
	statements := NewStatementHandler(repos)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging())

	router.GET("/", func(c *gin.Context) {
		outcome.RenderSuccess(c, "Welcome to Money Map!")
	})
	router.POST("/account", users.Register)
	router.POST("/account/login", users.Login)

	authed := router.Group("", middleware.RequireAuth(tokens, sessions))
	{
		authed.GET("/account", users.Profile)
		authed.PATCH("/account", users.Modify)
		authed.POST("/account/logout", users.Logout)
		authed.GET("/users", users.FindAll)

		authed.GET("/money_maps", moneyMaps.Find)
		authed.POST("/money_maps", moneyMaps.Create)
		authed.PATCH("/money_maps/:mmID", moneyMaps.Update)
		authed.DELETE("/money_maps/:mmID", moneyMaps.Delete)

		authed.GET("/money_maps/:mmID/users", members.Find)
		authed.POST("/money_maps/:mmID/users", members.Add)
		authed.DELETE("/money_maps/:mmID/users/:userID", members.Delete)

		authed.GET("/money_maps/:mmID/accounts", accounts.Find)
		authed.POST("/money_maps/:mmID/accounts", accounts.Create)

		authed.GET("/money_maps/:mmID/accounts/:accountID/transactions", transactions.Find)
		authed.POST("/money_maps/:mmID/accounts/:accountID/transactions", transactions.Create)

		authed.GET("/money_maps/:mmID/accounts/:accountID/statements", statements.Find)
		authed.POST("/money_maps/:mmID/accounts/:accountID/statements", statements.Create)
	}

	return router
}
