package handlers

import (
	"net/http"

	"museumbot/internal/http/middleware"
	"museumbot/internal/ws"

	"github.com/gin-gonic/gin"
)

type Feed struct {
	Hub *ws.Hub
}

// GET /api/admin/ws
// Subscribes the dashboard to the live booking feed of the museum in
// the token claim.
func (f Feed) Subscribe(c *gin.Context) {
	museum := middleware.GetMuseum(c)
	if museum == "" {
		RespondError(c, http.StatusUnauthorized, "missing museum claim", nil)
		return
	}
	if err := f.Hub.Serve(c.Writer, c.Request, museum); err != nil {
		RespondError(c, http.StatusBadRequest, "websocket upgrade failed", err)
	}
}
