package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

var ledgerColumns = []string{"customer_id", "name", "phone", "email", "total_purchases", "total_spent", "last_purchase_at", "joined_at", "loyalty_points"}

func TestCustomerFindByPhone_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCustomerRepository(gormDB)

	now := time.Now()
	rows := sqlmock.NewRows(ledgerColumns).
		AddRow("c-1", "Asha", "9800000001", nil, 3, "1500.50", now, now, 15)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customer_ledger" WHERE phone = $1`)).
		WillReturnRows(rows)

	e, err := repo.FindByPhone(context.Background(), "9800000001")
	assert.NoError(t, err)
	assert.Equal(t, "c-1", e.CustomerID)
	assert.True(t, decimal.RequireFromString("1500.50").Equal(e.TotalSpent))
}

func TestCustomerFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCustomerRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customer_ledger"`)).
		WillReturnRows(sqlmock.NewRows(ledgerColumns))

	e, err := repo.FindByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestCustomerUpsert(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCustomerRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "customer_ledger" .* ON CONFLICT \("customer_id"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), &models.CustomerLedgerEntry{
		CustomerID:     "c-1",
		Name:           "Asha",
		Phone:          "9800000001",
		TotalPurchases: 1,
		TotalSpent:     decimal.NewFromInt(250),
		LastPurchaseAt: time.Now(),
		JoinedAt:       time.Now(),
		LoyaltyPoints:  2,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
