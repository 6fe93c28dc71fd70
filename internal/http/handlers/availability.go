package handlers

import (
	"net/http"

	"museumbot/internal/domain"
	"museumbot/internal/domain/models"
	"museumbot/internal/services"
	"museumbot/internal/utils"

	"github.com/gin-gonic/gin"
)

type Availability struct {
	Inventory services.InventoryService
}

// GET /api/availability?museum=&date=&session=
func (a Availability) Get(c *gin.Context) {
	slot := models.Slot{
		Museum:  c.Query("museum"),
		Date:    c.Query("date"),
		Session: c.Query("session"),
	}
	if slot.Museum == "" || slot.Date == "" || slot.Session == "" {
		RespondError(c, http.StatusBadRequest, "museum, date and session are required", nil)
		return
	}
	if _, err := utils.ParseDate(slot.Date); err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err})
		return
	}
	if !utils.IsValidSession(slot.Session) {
		RespondDomainError(c, domain.ValidationError{Field: "session", Msg: "unknown session"})
		return
	}

	avail, err := a.Inventory.Availability(slot)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"museum":    slot.Museum,
		"date":      slot.Date,
		"session":   slot.Session,
		"capacity":  avail.Capacity,
		"booked":    avail.Booked,
		"available": avail.Available,
	})
}
