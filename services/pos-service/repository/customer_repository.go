package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// CustomerStore looks up and writes customer ledger entries. Finders return
// (nil, nil) when nothing matches.
type CustomerStore interface {
	FindByID(ctx context.Context, customerID string) (*models.CustomerLedgerEntry, error)
	FindByPhone(ctx context.Context, phone string) (*models.CustomerLedgerEntry, error)
	FindByName(ctx context.Context, name string) (*models.CustomerLedgerEntry, error)
	Upsert(ctx context.Context, entry *models.CustomerLedgerEntry) error
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, customerID string) (*models.CustomerLedgerEntry, error) {
	return r.first(ctx, "customer_id = ?", customerID)
}

// FindByPhone returns the earliest-joined entry with this phone.
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.CustomerLedgerEntry, error) {
	return r.first(ctx, "phone = ?", phone)
}

// FindByName matches case-insensitively.
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*models.CustomerLedgerEntry, error) {
	return r.first(ctx, "LOWER(name) = LOWER(?)", name)
}

func (r *GormCustomerRepository) first(ctx context.Context, query string, arg any) (*models.CustomerLedgerEntry, error) {
	var e models.CustomerLedgerEntry
	err := r.db.WithContext(ctx).Where(query, arg).Order("joined_at").First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormCustomerRepository) Upsert(ctx context.Context, entry *models.CustomerLedgerEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error
}
