package handlers

import (
	"net/http"

	"museumbot/internal/services"

	"github.com/gin-gonic/gin"
)

type Museums struct {
	Catalog services.MuseumCatalog
}

// GET /api/museums?location=
func (m Museums) List(c *gin.Context) {
	if loc := c.Query("location"); loc != "" {
		museums, err := m.Catalog.FindByLocation(loc)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"museums": museums})
		return
	}

	museums, err := m.Catalog.ListAll()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"museums": museums})
}

// GET /api/museums/locations
func (m Museums) Locations(c *gin.Context) {
	locations, err := m.Catalog.DistinctLocations()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
