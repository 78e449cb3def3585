package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finance-ledger/internal/models"
	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

func TestStorage_CreateAndReadEntry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := newUserUID()
	category := "groceries"

	entry := factory.NewEntry(user, "42.10", time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC))
	entry.CategoryID = &category
	entry.PaymentMethod = models.PaymentMethod{Type: "card", Provider: "visa", LastFourDigits: "4242"}
	entry.Tags = models.StringArray{"food", "weekly"}

	id, err := storage.CreateEntry(context.Background(), entry)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := storage.ReadEntry(context.Background(), id, user)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.True(t, decimal.RequireFromString("42.10").Equal(got.Amount))
	assert.Equal(t, models.EntryTypeExpense, got.Type)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, category, *got.CategoryID)
	assert.Equal(t, entry.PaymentMethod, got.PaymentMethod)
	assert.Equal(t, entry.Tags, got.Tags)
	assert.True(t, entry.Date.Equal(got.Date))
	assert.False(t, got.Recurring.IsRecurring)
	assert.Nil(t, got.Recurring.NextDue)
	assert.Nil(t, got.Recurring.StartDate)
	assert.Nil(t, got.TemplateID)
	assert.Equal(t, 1, got.Metadata.Version)
}

func TestStorage_ReadEntry_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	owner := newUserUID()
	id, err := storage.CreateEntry(context.Background(), factory.NewEntry(owner, "1.00", time.Now()))
	require.NoError(t, err)

	tests := []struct {
		name string
		id   int64
		user string
	}{
		{name: "unknown id", id: id + 100, user: owner},
		{name: "other user", id: id, user: newUserUID()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.ReadEntry(context.Background(), tt.id, tt.user)
			assert.ErrorIs(t, err, ErrEntryNotFound)
		})
	}
}

func TestStorage_UpdateEntry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := newUserUID()
	entry := factory.NewEntry(user, "10.00", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))
	id, err := storage.CreateEntry(context.Background(), entry)
	require.NoError(t, err)
	entry.ID = id

	start := recurrence.NewDate(2025, time.January, 15)
	end := recurrence.NewDate(2025, time.June, 15)
	next := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	entry.Amount = decimal.RequireFromString("12.00")
	entry.Recurring = recurrence.Recurrence{
		IsRecurring: true,
		Frequency:   recurrence.Monthly,
		StartDate:   &start,
		EndDate:     &end,
		NextDue:     &next,
	}
	entry.Metadata.Touch(time.Now().UTC())

	require.NoError(t, storage.UpdateEntry(context.Background(), entry))

	got, err := storage.ReadEntry(context.Background(), id, user)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12").Equal(got.Amount))
	assert.True(t, got.Recurring.IsRecurring)
	assert.Equal(t, recurrence.Monthly, got.Recurring.Frequency)
	require.NotNil(t, got.Recurring.StartDate)
	assert.Equal(t, start, *got.Recurring.StartDate)
	require.NotNil(t, got.Recurring.EndDate)
	assert.Equal(t, end, *got.Recurring.EndDate)
	require.NotNil(t, got.Recurring.NextDue)
	assert.True(t, next.Equal(*got.Recurring.NextDue))
	assert.Equal(t, 2, got.Metadata.Version)

	entry.UserUID = newUserUID()
	assert.ErrorIs(t, storage.UpdateEntry(context.Background(), entry), ErrEntryNotFound)
}

func TestStorage_ListRecurringEntries(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := newUserUID()
	start := recurrence.NewDate(2025, time.January, 1)

	later := factory.CreateTemplate(t, user, recurrence.Monthly, start, nil, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	sooner := factory.CreateTemplate(t, user, recurrence.Weekly, start, nil, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	factory.CreateTemplate(t, newUserUID(), recurrence.Daily, start, nil, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
	_, err := storage.CreateEntry(context.Background(), factory.NewEntry(user, "5.00", time.Now()))
	require.NoError(t, err)

	got, err := storage.ListRecurringEntries(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sooner.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
}

func TestStorage_CanceledContext(t *testing.T) {
	s := &Storage{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateEntry(ctx, models.Entry{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.ReadEntry(ctx, 1, "u")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.UpdateEntry(ctx, models.Entry{}), context.Canceled)
	assert.ErrorIs(t, s.DeleteEntry(ctx, 1, "u"), context.Canceled)
	_, err = s.ListRecurringEntries(ctx, "u")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.FindDueTemplates(ctx, time.Now(), 10)
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = s.SaveOccurrence(ctx, models.Entry{}, time.Now(), models.Entry{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.DeactivateTemplate(ctx, 1, time.Now()), context.Canceled)
	_, err = s.CountOccurrences(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
