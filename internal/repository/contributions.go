package repository

import (
	"errors"

	"gorm.io/gorm"

	"perundhu/internal/models"
)

// ContributionRepo stores route contributions and their stops.
type ContributionRepo struct {
	db *gorm.DB
}

func NewContributionRepo(db *gorm.DB) *ContributionRepo {
	return &ContributionRepo{db: db}
}

func (r *ContributionRepo) Save(c *models.RouteContribution) error {
	return r.db.Save(c).Error
}

func (r *ContributionRepo) FindByID(id string) (*models.RouteContribution, error) {
	var c models.RouteContribution
	err := r.db.Preload("Stops").Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContributionRepo) FindByStatus(status string) ([]models.RouteContribution, error) {
	var out []models.RouteContribution
	err := r.db.Preload("Stops").
		Where("status = ?", status).
		Order("submission_date").
		Find(&out).Error
	return out, err
}

func (r *ContributionRepo) FindByUser(userID string) ([]models.RouteContribution, error) {
	var out []models.RouteContribution
	err := r.db.Where("user_id = ?", userID).
		Order("submission_date desc").
		Find(&out).Error
	return out, err
}

// ImageRepo stores image contributions.
type ImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) *ImageRepo {
	return &ImageRepo{db: db}
}

func (r *ImageRepo) Save(c *models.ImageContribution) error {
	return r.db.Save(c).Error
}

func (r *ImageRepo) FindByID(id string) (*models.ImageContribution, error) {
	var c models.ImageContribution
	err := r.db.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ImageRepo) FindByUser(userID string) ([]models.ImageContribution, error) {
	var out []models.ImageContribution
	err := r.db.Select("id, user_id, content_type, description, location, route_name, status, validation_message, requires_manual_entry, submission_date, processed_date").
		Where("user_id = ?", userID).
		Order("submission_date desc").
		Find(&out).Error
	return out, err
}
