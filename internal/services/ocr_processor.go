package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"perundhu/internal/models"
	"perundhu/internal/vision"
)

// OCR confidence thresholds, as fractions of 1.
const (
	ocrAutoConfidence   = 0.6
	ocrReviewConfidence = 0.3
)

// OCRProcessor runs schedule-photo extraction on a bounded worker pool.
// Uploads are persisted first, then queued; workers update the image row and
// feed extracted routes into the contribution pipeline.
type OCRProcessor struct {
	images     ImageStore
	extractor  Extractor
	pipeline   *Pipeline
	duplicates *DuplicateDetector

	tasks chan string
	wg    sync.WaitGroup

	closeOnce sync.Once
}

func NewOCRProcessor(images ImageStore, extractor Extractor, pipeline *Pipeline, duplicates *DuplicateDetector, workers int) *OCRProcessor {
	if workers < 1 {
		workers = 1
	}
	p := &OCRProcessor{
		images:     images,
		extractor:  extractor,
		pipeline:   pipeline,
		duplicates: duplicates,
		tasks:      make(chan string, workers*4),
	}
	for n := 0; n < workers; n++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Enqueue queues a persisted image contribution for extraction. Returns an
// error when the queue is saturated so the caller can tell the uploader to
// retry instead of blocking the request.
func (p *OCRProcessor) Enqueue(imageID string) error {
	select {
	case p.tasks <- imageID:
		return nil
	default:
		return fmt.Errorf("image processing queue is full")
	}
}

// Shutdown stops intake and waits up to grace for in-flight extractions.
func (p *OCRProcessor) Shutdown(grace time.Duration) {
	p.closeOnce.Do(func() { close(p.tasks) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		log.Warn("ocr workers did not drain before shutdown deadline")
	}
}

func (p *OCRProcessor) worker() {
	defer p.wg.Done()
	for id := range p.tasks {
		p.process(id)
	}
}

func (p *OCRProcessor) process(id string) {
	img, err := p.images.FindByID(id)
	if err != nil || img == nil {
		log.WithError(err).WithField("image", id).Error("queued image not loadable")
		return
	}

	fp := FingerprintImage(img.Image)
	if prior, dup := p.duplicates.Check(fp); dup && prior.ContributionID != img.ID {
		p.finish(img, models.ImageStatusDuplicate,
			"same image already submitted as "+prior.ContributionID, false)
		return
	}
	p.duplicates.Remember(fp, img.ID)

	extraction, err := p.extractor.Extract(img.Image, img.ContentType)
	switch {
	case errors.Is(err, vision.ErrUnavailable):
		p.finish(img, models.ImageStatusManualReview,
			"text extraction service unavailable, manual entry needed", true)
		return
	case err != nil:
		log.WithError(err).WithField("image", img.ID).Error("ocr extraction failed")
		p.finish(img, models.ImageStatusProcessingFailed, "extraction failed: "+err.Error(), true)
		return
	}

	img.ExtractedData = extraction.Text

	switch {
	case extraction.Confidence < ocrReviewConfidence:
		p.finish(img, models.ImageStatusLowConfidence,
			fmt.Sprintf("extraction confidence %.2f too low to trust", extraction.Confidence), true)
		return
	case extraction.Confidence < ocrAutoConfidence:
		p.finish(img, models.ImageStatusManualReview,
			fmt.Sprintf("extraction confidence %.2f needs human confirmation", extraction.Confidence), true)
		return
	}

	created := p.submitRoutes(img, extraction.Text)
	if created == 0 {
		p.finish(img, models.ImageStatusManualReview,
			"no usable route found in extracted text", true)
		return
	}
	p.finish(img, models.ImageStatusProcessed,
		fmt.Sprintf("extracted %d schedule entries", created), false)
}

// submitRoutes expands each parsed route into per-departure candidates and
// lands them through the pipeline under the image channel.
func (p *OCRProcessor) submitRoutes(img *models.ImageContribution, text string) int {
	total := 0
	for _, route := range ExtractRoutes(text) {
		candidates := ExpandTimings(route, text)
		for i := range candidates {
			candidates[i].Notes = "extracted from image " + img.ID
		}
		result, err := p.pipeline.Process(candidates, img.UserID, models.SourceImage, false)
		if err != nil {
			log.WithError(err).WithField("image", img.ID).Error("pipeline rejected extracted routes")
			continue
		}
		total += len(result.Contributions)
	}
	return total
}

func (p *OCRProcessor) finish(img *models.ImageContribution, status, message string, manual bool) {
	now := time.Now()
	img.Status = status
	img.ValidationMessage = message
	img.RequiresManualEntry = manual
	img.ProcessedDate = &now
	if err := p.images.Save(img); err != nil {
		log.WithError(err).WithField("image", img.ID).Error("image status update failed")
	}
}
