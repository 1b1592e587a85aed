package models

import (
	"time"
)

// Contribution lifecycle statuses.
const (
	StatusPending           = "PENDING"
	StatusApproved          = "APPROVED"
	StatusRejected          = "REJECTED"
	StatusDuplicate         = "DUPLICATE"
	StatusIntegrated        = "INTEGRATED"
	StatusIntegrationFailed = "INTEGRATION_FAILED"
	StatusPendingReview     = "PENDING_REVIEW"
)

// Contribution source channels.
const (
	SourceManual = "manual"
	SourcePaste  = "paste"
	SourceVoice  = "voice"
	SourceImage  = "image"
)

// RouteContribution is a user-submitted candidate route awaiting validation,
// approval and eventual integration into the bus catalog.
type RouteContribution struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"index"`

	BusNumber        string `json:"bus_number"`
	BusName          string `json:"bus_name"`
	FromLocationName string `json:"from_location_name"`
	ToLocationName   string `json:"to_location_name"`

	FromLatitude  *float64 `json:"from_latitude"`
	FromLongitude *float64 `json:"from_longitude"`
	ToLatitude    *float64 `json:"to_latitude"`
	ToLongitude   *float64 `json:"to_longitude"`

	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`

	ScheduleInfo    string `json:"schedule_info,omitempty"`
	AdditionalNotes string `json:"additional_notes,omitempty"`

	Source            string `json:"source" gorm:"index"` // manual, paste, voice, image
	Status            string `json:"status" gorm:"index"`
	ValidationMessage string `json:"validation_message,omitempty"`

	// Set when the contribution was matched to an already-integrated bus.
	LinkedBusID *uint `json:"linked_bus_id,omitempty"`

	// Crowd confirmation: a resubmission of the same schedule inside the
	// duplicate window counts as independent corroboration.
	Verified       bool `json:"verified"`
	ConfirmedCount int  `json:"confirmed_count"`

	Stops []StopContribution `gorm:"foreignKey:ContributionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stops,omitempty"`

	SubmissionDate time.Time  `json:"submission_date"`
	ProcessedDate  *time.Time `json:"processed_date,omitempty"`
}

// StopContribution is an ordered stop entry owned by one RouteContribution.
// Deleted with its parent.
type StopContribution struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ContributionID string `json:"contribution_id" gorm:"index;size:36"`

	Seq  int    `json:"seq"`
	Name string `json:"name"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	ArrivalTime   string `json:"arrival_time,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
}
