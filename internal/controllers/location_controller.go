package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perundhu/internal/config"
	"perundhu/internal/models"
	"perundhu/internal/repository"
	"perundhu/internal/services"
)

// ListLocations answers GET /locations, optionally filtered by ?q=fragment.
func ListLocations(c *gin.Context) {
	repo := repository.NewLocationRepo(config.DB)

	q := strings.TrimSpace(c.Query("q"))
	var (
		locations []models.Location
		err       error
	)
	if q != "" {
		locations, err = repo.FindByNameContaining(services.NormalizePlaceName(q))
	} else {
		locations, err = repo.All()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	c.JSON(http.StatusOK, gin.H{"data": locations})
}
