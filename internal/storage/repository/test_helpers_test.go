package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/finance-ledger/internal/migrations"
	"github.com/magabrotheeeer/finance-ledger/internal/models"
	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// NewEntry возвращает обычную запись пользователя
func (f *TestDataFactory) NewEntry(userUID string, amount string, date time.Time) models.Entry {
	now := time.Now().UTC()
	return models.Entry{
		UserUID:       userUID,
		Amount:        decimal.RequireFromString(amount),
		Type:          models.EntryTypeExpense,
		Description:   "test entry",
		Date:          date,
		PaymentMethod: models.PaymentMethod{Type: models.DefaultPaymentType},
		Tags:          models.StringArray{"test"},
		Metadata:      models.NewMetadata(now, models.CreatedByUser, models.SourceManual),
	}
}

// CreateTemplate создает активный шаблон с заданным сроком
func (f *TestDataFactory) CreateTemplate(t *testing.T, userUID string, freq recurrence.Frequency,
	start recurrence.Date, end *recurrence.Date, nextDue time.Time) models.Entry {
	e := f.NewEntry(userUID, "100.00", start.StartOfDay(time.UTC))
	e.Description = "monthly rent"
	e.Recurring = recurrence.Recurrence{
		IsRecurring: true,
		Frequency:   freq,
		StartDate:   &start,
		EndDate:     end,
		NextDue:     &nextDue,
	}
	id, err := f.storage.CreateEntry(context.Background(), e)
	require.NoError(t, err)
	e.ID = id
	return e
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyTemplateState проверяет флаг и срок шаблона
func (v *TestVerification) VerifyTemplateState(t *testing.T, id int64, wantRecurring bool, wantNextDue *time.Time) {
	var isRecurring bool
	var nextDue *time.Time
	err := v.storage.DB.QueryRow("SELECT is_recurring, next_due FROM entries WHERE id = $1", id).
		Scan(&isRecurring, &nextDue)
	require.NoError(t, err)
	require.Equal(t, wantRecurring, isRecurring)
	if wantNextDue == nil {
		require.Nil(t, nextDue)
		return
	}
	require.NotNil(t, nextDue)
	require.True(t, wantNextDue.Equal(*nextDue), "next_due: want %s, got %s", wantNextDue, nextDue)
}

// VerifyOccurrences проверяет число порожденных шаблоном записей
func (v *TestVerification) VerifyOccurrences(t *testing.T, templateID int64, want int) {
	count, err := v.storage.CountOccurrences(context.Background(), templateID)
	require.NoError(t, err)
	require.Equal(t, want, count)
}

func newUserUID() string {
	return uuid.New().String()
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	port, err := postgresContainer.MappedPort(ctx, "5432")
	require.NoError(t, err, "Failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "Failed to apply migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
