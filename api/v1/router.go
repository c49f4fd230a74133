package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apiauth "go_gizmo/api/v1/auth"
	apidns "go_gizmo/api/v1/dns"
	"go_gizmo/api/v1/middleware"
	"go_gizmo/internal/auth"
	"go_gizmo/internal/dns"
	"go_gizmo/internal/httpx"
)

// Deps are the services the API routes are built on
type Deps struct {
	Service *dns.Service
	Users   apiauth.Users
	Issuer  *auth.TokenIssuer
	Logger  *logrus.Entry
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	r.Use(middleware.RequestLogger(deps.Logger), gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", pingHandler)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", apiauth.LoginHandler(deps.Users, deps.Issuer))
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired(deps.Issuer))
		{
			protected.GET("/me", meHandler)

			h := apidns.NewHandler(deps.Service)
			protected.GET("/providers", h.Providers)
			protected.GET("/accounts", h.Accounts)
			protected.GET("/accounts/:id/domains", h.AccountDomains)

			domains := protected.Group("/domains")
			{
				domains.GET("/:id/records", h.DomainRecords)
				domains.POST("/:id/pull", h.PullDomain)
			}

			records := protected.Group("/records")
			{
				records.POST("/:id/create", h.CreateRecord)
				records.POST("/:id/update", h.UpdateRecord)
				records.POST("/:id/delete", h.DeleteRecord)
			}
		}
	}
}

func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"uid":      middleware.UID(c),
		"username": c.GetString(middleware.UsernameKey),
		"role":     c.GetString(middleware.RoleKey),
	})
}
