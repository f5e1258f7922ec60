package services

import (
	"fmt"
	"testing"
	"time"

	"invoice_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Client{}, &domain.BillFromAddress{},
		&domain.Invoice{}, &domain.InvoiceItem{}, &domain.PaymentDetail{},
	))
	return db
}

func seedServiceFixtures(t *testing.T, db *gorm.DB) (user domain.User, client domain.Client, billFrom domain.BillFromAddress) {
	t.Helper()
	user = domain.User{Username: "issuer", Email: "issuer@test.local", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	client = domain.Client{Name: "Acme"}
	require.NoError(t, db.Create(&client).Error)
	billFrom = domain.BillFromAddress{UserID: user.ID, CompanyName: "MyCo"}
	require.NoError(t, db.Create(&billFrom).Error)
	return
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 10, 0, 0, 0, time.UTC)
	}
}

func baseInvoice(clientID uint) *domain.Invoice {
	return &domain.Invoice{
		ClientID:    clientID,
		InvoiceDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Subtotal:    100,
		TaxRate:     15,
		TaxAmount:   15,
		Total:       115,
		Items: []domain.InvoiceItem{
			{Description: "Design", Quantity: 1, UnitPrice: 100, Total: 100},
			{Description: "Tax handling", Quantity: 1, UnitPrice: 15, Total: 15},
		},
	}
}

func TestCreateGeneratesSequentialNumbers(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)
	svc.now = fixedClock(2025, time.January)

	for i := 1; i <= 3; i++ {
		inv := baseInvoice(client.ID)
		require.NoError(t, svc.Create(user.ID, inv))
		assert.Equal(t, fmt.Sprintf("INV-2025-01-%04d", i), inv.InvoiceNumber)
	}
}

func TestCreateNumberingResetsAcrossMonths(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)

	svc.now = fixedClock(2025, time.January)
	jan := baseInvoice(client.ID)
	require.NoError(t, svc.Create(user.ID, jan))
	assert.Equal(t, "INV-2025-01-0001", jan.InvoiceNumber)

	svc.now = fixedClock(2025, time.February)
	feb := baseInvoice(client.ID)
	require.NoError(t, svc.Create(user.ID, feb))
	assert.Equal(t, "INV-2025-02-0001", feb.InvoiceNumber)
}

func TestCreateContinuesFromExistingSuffix(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	seeded := baseInvoice(client.ID)
	seeded.UserID = user.ID
	seeded.InvoiceNumber = "INV-2025-01-0041"
	seeded.Items = nil
	require.NoError(t, db.Create(seeded).Error)

	svc := NewInvoiceService(db)
	svc.now = fixedClock(2025, time.January)
	inv := baseInvoice(client.ID)
	require.NoError(t, svc.Create(user.ID, inv))
	assert.Equal(t, "INV-2025-01-0042", inv.InvoiceNumber)
}

func TestCreateRejectsDuplicateExplicitNumber(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)

	first := baseInvoice(client.ID)
	first.InvoiceNumber = "INV-CUSTOM-1"
	require.NoError(t, svc.Create(user.ID, first))

	second := baseInvoice(client.ID)
	second.InvoiceNumber = "INV-CUSTOM-1"
	err := svc.Create(user.ID, second)
	require.ErrorIs(t, err, ErrDuplicateInvoiceNumber)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	db := setupServiceTestDB(t)
	user, _, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)

	inv := baseInvoice(9999)
	err := svc.Create(user.ID, inv)
	require.ErrorIs(t, err, ErrInvalidClient)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsForeignBillFrom(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	other := domain.User{Username: "other", Email: "other@test.local", Password: "x"}
	require.NoError(t, db.Create(&other).Error)
	foreign := domain.BillFromAddress{UserID: other.ID, CompanyName: "NotMine"}
	require.NoError(t, db.Create(&foreign).Error)

	svc := NewInvoiceService(db)
	inv := baseInvoice(client.ID)
	inv.BillFromID = &foreign.ID
	err := svc.Create(user.ID, inv)
	require.ErrorIs(t, err, ErrInvalidBillFrom)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

// A line item that violates the quantity check mid-loop must roll back the
// invoice row and every previously inserted item.
func TestCreateRollsBackOnItemFailure(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)
	svc.now = fixedClock(2025, time.March)

	inv := baseInvoice(client.ID)
	inv.Items = []domain.InvoiceItem{
		{Description: "ok", Quantity: 1, UnitPrice: 10, Total: 10},
		{Description: "ok too", Quantity: 2, UnitPrice: 10, Total: 20},
		{Description: "broken", Quantity: 0, UnitPrice: 10, Total: 0}, // violates quantity > 0
	}
	err := svc.Create(user.ID, inv)
	require.Error(t, err)

	var invoices, items int64
	require.NoError(t, db.Model(&domain.Invoice{}).Count(&invoices).Error)
	require.NoError(t, db.Model(&domain.InvoiceItem{}).Count(&items).Error)
	assert.Zero(t, invoices)
	assert.Zero(t, items)
}

func TestCreateEchoesItemsInOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)

	inv := baseInvoice(client.ID)
	require.NoError(t, svc.Create(user.ID, inv))
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Design", inv.Items[0].Description)
	assert.Equal(t, "Tax handling", inv.Items[1].Description)
	for _, it := range inv.Items {
		assert.Equal(t, inv.ID, it.InvoiceID)
		assert.NotZero(t, it.ID)
	}
}

func TestCreateDefaultsStatusToPending(t *testing.T) {
	db := setupServiceTestDB(t)
	user, client, _ := seedServiceFixtures(t, db)
	svc := NewInvoiceService(db)

	inv := baseInvoice(client.ID)
	require.NoError(t, svc.Create(user.ID, inv))
	assert.Equal(t, domain.StatusPending, inv.Status)
}

func TestFallbackInvoiceNumberFormat(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, fmt.Sprintf("INV-%d", at.UnixMilli()), fallbackInvoiceNumber(at))
}
