package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"perundhu/internal/config"
	"perundhu/internal/models"
)

// RouteCandidate is one schedule entry on its way into the review queue.
// Channel handlers produce candidates; the pipeline applies the shared
// guards, resolution, validation and dedupe to each one.
type RouteCandidate struct {
	BusNumber     string
	BusName       string
	From          string
	To            string
	FromLatitude  *float64
	FromLongitude *float64
	ToLatitude    *float64
	ToLongitude   *float64
	DepartureTime string
	ArrivalTime   string
	ScheduleInfo  string
	Notes         string
	Stops         []StopCandidate
}

// StopCandidate is an intermediate stop attached to a candidate.
type StopCandidate struct {
	Name          string
	Latitude      *float64
	Longitude     *float64
	ArrivalTime   string
	DepartureTime string
}

// SkippedCandidate explains why one expanded candidate was dropped.
type SkippedCandidate struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// DuplicateRef points a rejected resubmission at the contribution it repeats.
type DuplicateRef struct {
	Index      int    `json:"index"`
	ExistingID string `json:"existingId"`
}

// SubmissionResult summarizes what happened to one submission after
// expansion into candidates.
type SubmissionResult struct {
	Contributions []models.RouteContribution `json:"contributions"`
	Skipped       []SkippedCandidate         `json:"skipped,omitempty"`
	Duplicates    []DuplicateRef             `json:"duplicates,omitempty"`
}

// Pipeline takes raw submissions from every channel, expands them into
// candidates and lands the survivors as RouteContribution rows.
type Pipeline struct {
	contributions ContributionStore
	resolver      *Resolver
	validator     *RouteValidator
	duplicates    *DuplicateDetector
	content       *ContentValidator
	settings      config.Settings
}

func NewPipeline(
	contributions ContributionStore,
	resolver *Resolver,
	validator *RouteValidator,
	duplicates *DuplicateDetector,
	settings config.Settings,
) *Pipeline {
	return &Pipeline{
		contributions: contributions,
		resolver:      resolver,
		validator:     validator,
		duplicates:    duplicates,
		content:       NewContentValidator(),
		settings:      settings,
	}
}

// SubmitManual lands a single form-entered candidate.
func (p *Pipeline) SubmitManual(c RouteCandidate, userID string, autoApprove bool) (*SubmissionResult, error) {
	return p.Process([]RouteCandidate{c}, userID, models.SourceManual, autoApprove)
}

// SubmitText handles the paste and voice channels: screen the text, parse a
// route out of it, then expand one candidate per departure time.
func (p *Pipeline) SubmitText(text, userID, source string, autoApprove bool) (*SubmissionResult, error) {
	screened := p.content.Validate(text)
	if !screened.Valid {
		return nil, fmt.Errorf("%w: %s", ErrContentRejected, screened.Reason)
	}

	route := ExtractRoute(screened.Sanitized)
	if !route.Complete() {
		return nil, ErrNoRouteData
	}

	return p.Process(ExpandTimings(route, screened.Sanitized), userID, source, autoApprove)
}

// ExpandTimings turns one parsed route with N departure times into N
// candidates. A route with no parseable times still yields one candidate so
// reviewers can fill the schedule in by hand.
func ExpandTimings(route *RouteData, scheduleInfo string) []RouteCandidate {
	base := RouteCandidate{
		BusNumber:    route.BusNumber,
		BusName:      route.BusName,
		From:         route.FromLocation,
		To:           route.ToLocation,
		ScheduleInfo: scheduleInfo,
	}
	for _, s := range route.Stops {
		base.Stops = append(base.Stops, StopCandidate{Name: s})
	}

	if len(route.Timings) == 0 {
		return []RouteCandidate{base}
	}
	out := make([]RouteCandidate, 0, len(route.Timings))
	for _, t := range route.Timings {
		c := base
		c.DepartureTime = t
		out = append(out, c)
	}
	return out
}

// Process runs the shared guard chain over each candidate and persists the
// ones that survive. It never fails the whole batch for a per-candidate
// problem; storage errors are the only hard failures.
func (p *Pipeline) Process(candidates []RouteCandidate, userID, source string, autoApprove bool) (*SubmissionResult, error) {
	result := &SubmissionResult{}
	batch := p.resolver.Batch()

	for i, c := range candidates {
		from := NormalizePlaceName(c.From)
		to := NormalizePlaceName(c.To)

		if reason := p.guard(from, to); reason != "" {
			result.Skipped = append(result.Skipped, SkippedCandidate{Index: i, Reason: reason})
			continue
		}

		fromRes, err := batch.Resolve(from)
		if err != nil {
			return nil, err
		}
		toRes, err := batch.Resolve(to)
		if err != nil {
			return nil, err
		}
		if err := p.validator.Validate(fromRes.Location, toRes.Location); err != nil {
			result.Skipped = append(result.Skipped, SkippedCandidate{Index: i, Reason: err.Error()})
			continue
		}

		departure := ""
		if c.DepartureTime != "" {
			departure, err = ParseTimeFlexible(c.DepartureTime)
			if err != nil {
				result.Skipped = append(result.Skipped, SkippedCandidate{Index: i, Reason: "unparseable departure time " + c.DepartureTime})
				continue
			}
		}
		arrival := ""
		if c.ArrivalTime != "" {
			arrival, err = ParseTimeFlexible(c.ArrivalTime)
			if err != nil {
				result.Skipped = append(result.Skipped, SkippedCandidate{Index: i, Reason: "unparseable arrival time " + c.ArrivalTime})
				continue
			}
		}

		fp := Fingerprint(c.BusNumber, fromRes.Location.Name, toRes.Location.Name, departure)
		if prior, dup := p.duplicates.Check(fp); dup {
			result.Duplicates = append(result.Duplicates, DuplicateRef{Index: i, ExistingID: prior.ContributionID})
			p.confirmExisting(prior.ContributionID)
			log.WithFields(log.Fields{"existing": prior.ContributionID, "from": from, "to": to}).
				Info("duplicate contribution linked to earlier submission")
			continue
		}

		status := models.StatusPending
		if autoApprove {
			status = models.StatusApproved
		}
		contribution := models.RouteContribution{
			ID:               uuid.NewString(),
			UserID:           userID,
			BusNumber:        c.BusNumber,
			BusName:          c.BusName,
			FromLocationName: fromRes.Location.Name,
			ToLocationName:   toRes.Location.Name,
			FromLatitude:     coalesceCoord(c.FromLatitude, fromRes.Location.Latitude),
			FromLongitude:    coalesceCoord(c.FromLongitude, fromRes.Location.Longitude),
			ToLatitude:       coalesceCoord(c.ToLatitude, toRes.Location.Latitude),
			ToLongitude:      coalesceCoord(c.ToLongitude, toRes.Location.Longitude),
			DepartureTime:    departure,
			ArrivalTime:      arrival,
			ScheduleInfo:     c.ScheduleInfo,
			AdditionalNotes:  c.Notes,
			Source:           source,
			Status:           status,
			SubmissionDate:   time.Now(),
		}
		for seq, s := range c.Stops {
			contribution.Stops = append(contribution.Stops, models.StopContribution{
				Seq:           seq + 1,
				Name:          NormalizePlaceName(s.Name),
				Latitude:      s.Latitude,
				Longitude:     s.Longitude,
				ArrivalTime:   s.ArrivalTime,
				DepartureTime: s.DepartureTime,
			})
		}

		if err := p.contributions.Save(&contribution); err != nil {
			return nil, err
		}
		p.duplicates.Remember(fp, contribution.ID)
		result.Contributions = append(result.Contributions, contribution)
	}

	return result, nil
}

// confirmExisting records a resubmission as crowd confirmation on the
// contribution it duplicates. Best-effort: a failed update never fails the
// submission that triggered it.
func (p *Pipeline) confirmExisting(id string) {
	existing, err := p.contributions.FindByID(id)
	if err != nil || existing == nil {
		log.WithError(err).WithField("contribution", id).Warn("duplicate target not loadable")
		return
	}
	existing.Verified = true
	existing.ConfirmedCount++
	if err := p.contributions.Save(existing); err != nil {
		log.WithError(err).WithField("contribution", id).Warn("confirmation update failed")
	}
}

// guard applies the cheap rejections that need no database access.
func (p *Pipeline) guard(from, to string) string {
	if from == "" || to == "" {
		return "origin and destination are required"
	}
	if len([]rune(from)) < p.settings.MinLocationNameLen {
		return fmt.Sprintf("origin %q is too short to be a place name", from)
	}
	if len([]rune(to)) < p.settings.MinLocationNameLen {
		return fmt.Sprintf("destination %q is too short to be a place name", to)
	}
	if strings.EqualFold(from, to) {
		return "origin and destination are the same"
	}
	return ""
}

func coalesceCoord(provided, resolved *float64) *float64 {
	if provided != nil {
		return provided
	}
	return resolved
}
