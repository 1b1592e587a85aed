package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"perundhu/internal/models"
	"perundhu/internal/repository"
	"perundhu/internal/services"
)

type AdminController struct {
	contributions *repository.ContributionRepo
	integrator    *services.Integrator
	duplicates    *services.DuplicateDetector
}

func NewAdminController(db *gorm.DB, integrator *services.Integrator, duplicates *services.DuplicateDetector) *AdminController {
	return &AdminController{
		contributions: repository.NewContributionRepo(db),
		integrator:    integrator,
		duplicates:    duplicates,
	}
}

// ListContributions answers GET /admin/contributions?status=, defaulting to
// the pending review queue.
func (ac *AdminController) ListContributions(c *gin.Context) {
	status := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("status", models.StatusPending)))
	rows, err := ac.contributions.FindByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if rows == nil {
		rows = []models.RouteContribution{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "status": status})
}

// Approve moves a contribution into the integration queue.
func (ac *AdminController) Approve(c *gin.Context) {
	row, ok := ac.loadReviewable(c)
	if !ok {
		return
	}
	ac.finish(c, row, models.StatusApproved, "approved by "+currentUserID(c))
}

// Reject marks a contribution rejected with the reviewer's reason.
func (ac *AdminController) Reject(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&input)

	row, ok := ac.loadReviewable(c)
	if !ok {
		return
	}
	message := strings.TrimSpace(input.Reason)
	if message == "" {
		message = "rejected by reviewer"
	}
	ac.finish(c, row, models.StatusRejected, message)
}

// Integrate answers POST /admin/integrate by running the approved queue into
// the bus catalog.
func (ac *AdminController) Integrate(c *gin.Context) {
	result, err := ac.integrator.IntegrateApproved()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckDuplicate lets reviewers probe the dedupe window before hand-entering
// a schedule row.
func (ac *AdminController) CheckDuplicate(c *gin.Context) {
	fp := services.Fingerprint(
		c.Query("bus_number"),
		c.Query("from"),
		c.Query("to"),
		c.Query("departure_time"),
	)
	entry, dup := ac.duplicates.Check(fp)
	body := gin.H{"duplicate": dup, "fingerprint": fp}
	if dup {
		body["existing_id"] = entry.ContributionID
		body["first_seen"] = entry.FirstSeen
	}
	c.JSON(http.StatusOK, body)
}

func (ac *AdminController) loadReviewable(c *gin.Context) (*models.RouteContribution, bool) {
	row, err := ac.contributions.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return nil, false
	}
	if row == nil {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "contribution not found"))
		return nil, false
	}
	switch row.Status {
	case models.StatusPending, models.StatusPendingReview:
		return row, true
	default:
		c.JSON(http.StatusConflict, errorBody("ALREADY_PROCESSED", "contribution is already "+row.Status))
		return nil, false
	}
}

func (ac *AdminController) finish(c *gin.Context, row *models.RouteContribution, status, message string) {
	now := time.Now()
	row.Status = status
	row.ValidationMessage = message
	row.ProcessedDate = &now
	if err := ac.contributions.Save(row); err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"contribution": row})
}
