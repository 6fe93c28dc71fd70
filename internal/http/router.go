package api

import (
	"log"
	stdhttp "net/http"

	intconfig "museumbot/internal/config"
	h "museumbot/internal/http/handlers"
	"museumbot/internal/http/middleware"
	"museumbot/internal/services"
	"museumbot/internal/ws"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the admin API serves from.
type Deps struct {
	Env       intconfig.Env
	Museums   services.MuseumCatalog
	Inventory services.InventoryService
	Bookings  services.BookingStore
	Hub       *ws.Hub
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := h.Auth{Museums: d.Museums, PasswordHash: d.Env.AdminPasswordHash, JWTSecret: d.Env.JWTSecret}
	museums := h.Museums{Catalog: d.Museums}
	availability := h.Availability{Inventory: d.Inventory}
	bookings := h.Bookings{Store: d.Bookings}
	feed := h.Feed{Hub: d.Hub}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		api.POST("/auth/login", auth.Login)

		api.GET("/museums", museums.List)
		api.GET("/museums/locations", museums.Locations)
		api.GET("/availability", availability.Get)

		admin := api.Group("/admin", middleware.AdminJWT(d.Env.JWTSecret))
		{
			admin.GET("/bookings", bookings.ListForAdmin)
			admin.GET("/ws", feed.Subscribe)
		}
	}

	return r
}
