package repository

import (
	"errors"

	"gorm.io/gorm"

	"perundhu/internal/models"
)

// LocationRepo is the GORM-backed location store.
type LocationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// FindByName returns the location with the exact (case-sensitive) name, or
// nil when absent.
func (r *LocationRepo) FindByName(name string) (*models.Location, error) {
	var loc models.Location
	err := r.db.Where("name = ?", name).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindByTamilName returns the location with the exact Tamil-script name, or
// nil when absent.
func (r *LocationRepo) FindByTamilName(name string) (*models.Location, error) {
	var loc models.Location
	err := r.db.Where("tamil_name = ?", name).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindByNameContaining returns locations whose name contains the fragment,
// case-insensitively, ordered by name length then name so ties resolve
// deterministically.
func (r *LocationRepo) FindByNameContaining(fragment string) ([]models.Location, error) {
	var locs []models.Location
	err := r.db.
		Where("name ILIKE ?", "%"+fragment+"%").
		Order("length(name), name").
		Find(&locs).Error
	return locs, err
}

func (r *LocationRepo) FindByID(id uint) (*models.Location, error) {
	var loc models.Location
	err := r.db.First(&loc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepo) All() ([]models.Location, error) {
	var locs []models.Location
	err := r.db.Order("name").Find(&locs).Error
	return locs, err
}

func (r *LocationRepo) Save(loc *models.Location) error {
	return r.db.Save(loc).Error
}
