package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"perundhu/internal/config"
	"perundhu/internal/geo"
	"perundhu/internal/models"
)

type TrackingController struct {
	freshness time.Duration
	hub       *TrackingHub
}

func NewTrackingController(freshness time.Duration, hub *TrackingHub) *TrackingController {
	return &TrackingController{freshness: freshness, hub: hub}
}

// ReportSighting answers POST /tracking/report with a crowd-sourced bus
// position.
func (tc *TrackingController) ReportSighting(c *gin.Context) {
	var input struct {
		BusID     uint    `json:"bus_id" binding:"required"`
		Latitude  float64 `json:"latitude" binding:"required"`
		Longitude float64 `json:"longitude" binding:"required"`
		Note      string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_INPUT", err.Error()))
		return
	}
	if !geo.ValidCoordinates(input.Latitude, input.Longitude) {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_COORDINATES", "latitude or longitude out of range"))
		return
	}

	var bus models.Bus
	if err := config.DB.First(&bus, input.BusID).Error; err != nil {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "bus not found"))
		return
	}

	sighting := models.BusSighting{
		BusID:      input.BusID,
		UserID:     contributorID(c),
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Note:       input.Note,
		ReportedAt: time.Now(),
	}
	if err := config.DB.Create(&sighting).Error; err != nil {
		logrus.WithError(err).Error("sighting insert failed")
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	tc.hub.Publish(sighting)
	c.JSON(http.StatusCreated, gin.H{"sighting": sighting})
}

// BusSightings answers GET /tracking/bus/:id with recent positions, newest
// first.
func (tc *TrackingController) BusSightings(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_ID", "invalid bus id"))
		return
	}

	cutoff := time.Now().Add(-tc.freshness)
	var sightings []models.BusSighting
	if err := config.DB.
		Where("bus_id = ? AND reported_at > ?", uint(id), cutoff).
		Order("reported_at DESC").
		Find(&sightings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if sightings == nil {
		sightings = []models.BusSighting{}
	}
	c.JSON(http.StatusOK, gin.H{"data": sightings})
}
