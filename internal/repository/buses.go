package repository

import (
	"errors"

	"gorm.io/gorm"

	"perundhu/internal/models"
)

// BusRepo is the GORM-backed bus catalog store.
type BusRepo struct {
	db *gorm.DB
}

func NewBusRepo(db *gorm.DB) *BusRepo {
	return &BusRepo{db: db}
}

func (r *BusRepo) FindByID(id uint) (*models.Bus, error) {
	var bus models.Bus
	err := r.db.Preload("FromLocation").Preload("ToLocation").Preload("Stops").First(&bus, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

// FindBetween returns all buses running from one location to another.
func (r *BusRepo) FindBetween(fromID, toID uint) ([]models.Bus, error) {
	var buses []models.Bus
	err := r.db.
		Preload("FromLocation").Preload("ToLocation").
		Where("from_location_id = ? AND to_location_id = ?", fromID, toID).
		Order("departure_time").
		Find(&buses).Error
	return buses, err
}

// FindDeparting returns all buses that start at the given location.
func (r *BusRepo) FindDeparting(fromID uint) ([]models.Bus, error) {
	var buses []models.Bus
	err := r.db.
		Preload("FromLocation").Preload("ToLocation").
		Where("from_location_id = ?", fromID).
		Find(&buses).Error
	return buses, err
}

// FindArriving returns all buses that end at the given location.
func (r *BusRepo) FindArriving(toID uint) ([]models.Bus, error) {
	var buses []models.Bus
	err := r.db.
		Preload("FromLocation").Preload("ToLocation").
		Where("to_location_id = ?", toID).
		Find(&buses).Error
	return buses, err
}

// CountByNumberPrefix counts buses whose number starts with prefix, used
// when allocating generated route numbers.
func (r *BusRepo) CountByNumberPrefix(prefix string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Bus{}).
		Where("bus_number LIKE ?", prefix+"%").
		Count(&n).Error
	return n, err
}

func (r *BusRepo) Save(bus *models.Bus) error {
	return r.db.Save(bus).Error
}

// SaveStops replaces the stop list for a bus.
func (r *BusRepo) SaveStops(busID uint, stops []models.Stop) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bus_id = ?", busID).Delete(&models.Stop{}).Error; err != nil {
			return err
		}
		if len(stops) == 0 {
			return nil
		}
		for i := range stops {
			stops[i].BusID = busID
		}
		return tx.Create(&stops).Error
	})
}
