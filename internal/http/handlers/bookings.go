package handlers

import (
	"net/http"
	"time"

	"museumbot/internal/http/middleware"
	"museumbot/internal/services"
	"museumbot/internal/utils"

	"github.com/gin-gonic/gin"
)

type Bookings struct {
	Store services.BookingStore
}

// GET /api/admin/bookings?date=
// Museum comes from the token claim; date defaults to today.
func (b Bookings) ListForAdmin(c *gin.Context) {
	museum := middleware.GetMuseum(c)
	if museum == "" {
		RespondError(c, http.StatusUnauthorized, "missing museum claim", nil)
		return
	}

	date := c.Query("date")
	if date == "" {
		date = utils.FormatDate(time.Now())
	} else if _, err := utils.ParseDate(date); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
		return
	}

	bookings, err := b.Store.ListForDay(museum, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"museum":   museum,
		"date":     date,
		"bookings": bookings,
	})
}
