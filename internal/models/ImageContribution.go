package models

import (
	"time"
)

// Image contribution statuses.
const (
	ImageStatusProcessing       = "PROCESSING"
	ImageStatusProcessed        = "PROCESSED"
	ImageStatusProcessingFailed = "PROCESSING_FAILED"
	ImageStatusLowConfidence    = "LOW_CONFIDENCE_OCR"
	ImageStatusManualReview     = "MANUAL_REVIEW_NEEDED"
	ImageStatusDuplicate        = "DUPLICATE"
)

// ImageContribution is an uploaded bus schedule photo. OCR extraction runs
// asynchronously; a successful extraction produces one or more
// RouteContribution rows referencing this record.
type ImageContribution struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"index"`

	Image       []byte `gorm:"type:bytea" json:"-"`
	ContentType string `json:"content_type"`

	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	RouteName   string `json:"route_name,omitempty"`

	// Raw OCR output kept for manual review.
	ExtractedData string `json:"extracted_data,omitempty"`

	Status              string `json:"status" gorm:"index"`
	ValidationMessage   string `json:"validation_message,omitempty"`
	RequiresManualEntry bool   `json:"requires_manual_entry"`

	SubmissionDate time.Time  `json:"submission_date"`
	ProcessedDate  *time.Time `json:"processed_date,omitempty"`
}
