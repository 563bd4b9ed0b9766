package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mperez230-ship-it/MiniBanco/shared/middleware"
)

// RouterConfig carries the handlers and auth settings the router needs.
type RouterConfig struct {
	Users        *UserHandler
	Accounts     *AccountHandler
	Transactions *TransactionHandler
	External     *ExternalHandler

	Tokens             *middleware.Tokens
	TrustDeclaredActor bool
}

// NewRouter mounts every route at the root and again under /api.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// Liveness never touches storage.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", index)

	registerRoutes(r.Group(""), cfg)
	registerRoutes(r.Group("/api"), cfg)
	return r
}

func registerRoutes(g *gin.RouterGroup, cfg RouterConfig) {
	auth := middleware.AuthMiddleware(cfg.Tokens, cfg.TrustDeclaredActor)
	optional := middleware.OptionalAuth(cfg.Tokens, cfg.TrustDeclaredActor)

	g.POST("/login", cfg.Users.Login)

	users := g.Group("/users")
	users.POST("", optional, cfg.Users.Register)
	users.POST("/login", cfg.Users.Login)
	users.GET("", auth, cfg.Users.ListUsers)
	users.PUT("/:id", auth, cfg.Users.UpdateUser)
	users.DELETE("/:id", auth, cfg.Users.DeleteUser)

	accounts := g.Group("/accounts", auth)
	accounts.POST("", cfg.Accounts.CreateAccount)
	accounts.GET("", cfg.Accounts.ListAccounts)
	accounts.GET("/:id", cfg.Accounts.GetAccount)
	accounts.PUT("/:id", cfg.Accounts.UpdateAccount)
	accounts.DELETE("/:id", cfg.Accounts.DeleteAccount)

	transactions := g.Group("/transactions", auth)
	transactions.POST("", cfg.Transactions.CreateTransaction)
	transactions.GET("", cfg.Transactions.ListTransactions)
	transactions.PUT("/:id", cfg.Transactions.UpdateTransaction)

	if cfg.External != nil {
		ext := g.Group("/external")
		ext.GET("/rates", cfg.External.Rates)
		ext.GET("/add", cfg.External.Add)
	}
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"app": "MiniBanco API",
		"endpoints": gin.H{
			"health":       "/health",
			"login":        "/api/login",
			"users":        "/api/users",
			"accounts":     "/api/accounts",
			"transactions": "/api/transactions",
			"rates":        "/api/external/rates",
			"add":          "/api/external/add",
		},
	})
}
