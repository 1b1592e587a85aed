package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"perundhu/internal/models"
	"perundhu/internal/repository"
	"perundhu/internal/services"
)

const maxImageBytes = 10 << 20

type ContributionController struct {
	pipeline      *services.Pipeline
	ocr           *services.OCRProcessor
	contributions *repository.ContributionRepo
	images        *repository.ImageRepo
}

func NewContributionController(db *gorm.DB, pipeline *services.Pipeline, ocr *services.OCRProcessor) *ContributionController {
	return &ContributionController{
		pipeline:      pipeline,
		ocr:           ocr,
		contributions: repository.NewContributionRepo(db),
		images:        repository.NewImageRepo(db),
	}
}

type stopInput struct {
	Name          string   `json:"name" binding:"required"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ArrivalTime   string   `json:"arrival_time"`
	DepartureTime string   `json:"departure_time"`
}

type manualRouteInput struct {
	BusNumber     string      `json:"bus_number"`
	BusName       string      `json:"bus_name"`
	From          string      `json:"from" binding:"required"`
	To            string      `json:"to" binding:"required"`
	FromLatitude  *float64    `json:"from_latitude"`
	FromLongitude *float64    `json:"from_longitude"`
	ToLatitude    *float64    `json:"to_latitude"`
	ToLongitude   *float64    `json:"to_longitude"`
	DepartureTime string      `json:"departure_time" binding:"required"`
	ArrivalTime   string      `json:"arrival_time"`
	Notes         string      `json:"notes"`
	Stops         []stopInput `json:"stops"`
}

// SubmitRoute handles the manual entry channel.
func (cc *ContributionController) SubmitRoute(c *gin.Context) {
	var input manualRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_INPUT", err.Error()))
		return
	}

	candidate := services.RouteCandidate{
		BusNumber:     input.BusNumber,
		BusName:       input.BusName,
		From:          input.From,
		To:            input.To,
		FromLatitude:  input.FromLatitude,
		FromLongitude: input.FromLongitude,
		ToLatitude:    input.ToLatitude,
		ToLongitude:   input.ToLongitude,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		Notes:         input.Notes,
	}
	for _, s := range input.Stops {
		candidate.Stops = append(candidate.Stops, services.StopCandidate{
			Name:          s.Name,
			Latitude:      s.Latitude,
			Longitude:     s.Longitude,
			ArrivalTime:   s.ArrivalTime,
			DepartureTime: s.DepartureTime,
		})
	}

	result, err := cc.pipeline.SubmitManual(candidate, contributorID(c), isAdmin(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	cc.respond(c, result)
}

// SubmitPaste handles pasted schedule text (WhatsApp forwards, notice board
// transcriptions).
func (cc *ContributionController) SubmitPaste(c *gin.Context) {
	cc.submitText(c, models.SourcePaste)
}

// SubmitVoice handles transcribed voice notes. Transcription happens on the
// client; the backend treats the transcript as pasted text from a different
// channel.
func (cc *ContributionController) SubmitVoice(c *gin.Context) {
	cc.submitText(c, models.SourceVoice)
}

func (cc *ContributionController) submitText(c *gin.Context, source string) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_INPUT", err.Error()))
		return
	}

	result, err := cc.pipeline.SubmitText(input.Text, contributorID(c), source, isAdmin(c))
	switch {
	case errors.Is(err, services.ErrContentRejected):
		c.JSON(http.StatusUnprocessableEntity, errorBody("CONTENT_REJECTED", err.Error()))
		return
	case errors.Is(err, services.ErrNoRouteData):
		c.JSON(http.StatusUnprocessableEntity, errorBody("NO_ROUTE_DATA", "could not find a route in the text"))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	cc.respond(c, result)
}

// SubmitImage accepts a schedule photo and queues it for extraction.
func (cc *ContributionController) SubmitImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_INPUT", "image file is required"))
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorBody("IMAGE_TOO_LARGE", "image exceeds the 10 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorBody("IMAGE_TOO_LARGE", "image exceeds the 10 MB limit"))
		return
	}

	img := &models.ImageContribution{
		ID:             uuid.NewString(),
		UserID:         contributorID(c),
		Image:          data,
		ContentType:    fileHeader.Header.Get("Content-Type"),
		Description:    c.PostForm("description"),
		Location:       c.PostForm("location"),
		RouteName:      c.PostForm("route_name"),
		Status:         models.ImageStatusProcessing,
		SubmissionDate: time.Now(),
	}
	if err := cc.images.Save(img); err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}

	if err := cc.ocr.Enqueue(img.ID); err != nil {
		logrus.WithError(err).Warn("image queue saturated")
		c.JSON(http.StatusServiceUnavailable, errorBody("QUEUE_FULL", "image processing is busy, try again shortly"))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":     img.ID,
		"status": img.Status,
	})
}

// ImageStatus answers GET /contributions/images/:id so uploaders can poll
// extraction progress.
func (cc *ContributionController) ImageStatus(c *gin.Context) {
	img, err := cc.images.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "image contribution not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img})
}

// MyContributions answers GET /contributions/mine for authenticated users.
func (cc *ContributionController) MyContributions(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, errorBody("UNAUTHENTICATED", "login required"))
		return
	}
	rows, err := cc.contributions.FindByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if rows == nil {
		rows = []models.RouteContribution{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// GetContribution answers GET /contributions/:id.
func (cc *ContributionController) GetContribution(c *gin.Context) {
	row, err := cc.contributions.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "contribution not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"contribution": row})
}

func (cc *ContributionController) respond(c *gin.Context, result *services.SubmissionResult) {
	status := http.StatusCreated
	if len(result.Contributions) == 0 {
		// everything was skipped or duplicated; nothing new was stored
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func contributorID(c *gin.Context) string {
	if id := currentUserID(c); id != "" {
		return id
	}
	return "anonymous"
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	s, ok := role.(string)
	return ok && s == "admin"
}
