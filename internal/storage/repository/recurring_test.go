package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finance-ledger/internal/models"
	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

func materialize(template models.Entry, due time.Time) models.Entry {
	occ := template
	occ.ID = 0
	occ.Date = due
	occ.Recurring = template.Recurring.Provenance()
	id := template.ID
	occ.TemplateID = &id
	occ.Metadata = models.NewMetadata(time.Now().UTC(), models.CreatedByScheduler, models.SourceRecurring)
	return occ
}

func TestStorage_FindDueTemplates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := newUserUID()
	start := recurrence.NewDate(2025, time.January, 1)
	now := time.Date(2025, time.January, 20, 2, 15, 0, 0, time.UTC)

	first := factory.CreateTemplate(t, user, recurrence.Monthly, start, nil, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))
	second := factory.CreateTemplate(t, user, recurrence.Monthly, start, nil, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	factory.CreateTemplate(t, user, recurrence.Monthly, start, nil, time.Date(2025, time.January, 21, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		limit   int
		wantIDs []int64
	}{
		{name: "all due ordered by next_due", limit: 10, wantIDs: []int64{first.ID, second.ID}},
		{name: "limit applies", limit: 1, wantIDs: []int64{first.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.FindDueTemplates(context.Background(), now, tt.limit)
			require.NoError(t, err)
			ids := make([]int64, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStorage_SaveOccurrence(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	user := newUserUID()
	due := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	next := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)

	template := factory.CreateTemplate(t, user, recurrence.Monthly, recurrence.NewDate(2025, time.January, 15), nil, due)
	occurrence := materialize(template, due)

	advanced := template
	advanced.Recurring.NextDue = &next

	id, inserted, err := storage.SaveOccurrence(context.Background(), advanced, due, occurrence)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Positive(t, id)
	verify.VerifyTemplateState(t, template.ID, true, &next)
	verify.VerifyOccurrences(t, template.ID, 1)

	got, err := storage.ReadEntry(context.Background(), id, user)
	require.NoError(t, err)
	assert.False(t, got.Recurring.IsRecurring)
	assert.Nil(t, got.Recurring.NextDue)
	assert.Equal(t, recurrence.Monthly, got.Recurring.Frequency)
	require.NotNil(t, got.TemplateID)
	assert.Equal(t, template.ID, *got.TemplateID)
	assert.Equal(t, models.CreatedByScheduler, got.Metadata.CreatedBy)
	assert.True(t, due.Equal(got.Date))

	t.Run("stale expected next_due is rejected", func(t *testing.T) {
		_, _, err := storage.SaveOccurrence(context.Background(), advanced, due, occurrence)
		assert.ErrorIs(t, err, ErrStaleTemplate)
		verify.VerifyOccurrences(t, template.ID, 1)
		verify.VerifyTemplateState(t, template.ID, true, &next)
	})

	t.Run("duplicate occurrence is not inserted twice", func(t *testing.T) {
		again := advanced
		later := next.AddDate(0, 1, 0)
		again.Recurring.NextDue = &later

		_, inserted, err := storage.SaveOccurrence(context.Background(), again, next, occurrence)
		require.NoError(t, err)
		assert.False(t, inserted)
		verify.VerifyOccurrences(t, template.ID, 1)
		verify.VerifyTemplateState(t, template.ID, true, &later)
	})
}

func TestStorage_SaveOccurrence_Exhausts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	due := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	end := recurrence.NewDate(2025, time.February, 10)

	template := factory.CreateTemplate(t, newUserUID(), recurrence.Monthly, recurrence.NewDate(2025, time.January, 15), &end, due)
	occurrence := materialize(template, due)

	exhausted := template
	exhausted.Recurring.Deactivate()

	_, inserted, err := storage.SaveOccurrence(context.Background(), exhausted, due, occurrence)
	require.NoError(t, err)
	assert.True(t, inserted)
	verify.VerifyTemplateState(t, template.ID, false, nil)

	got, err := storage.FindDueTemplates(context.Background(), time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorage_DeactivateTemplate(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	due := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	template := factory.CreateTemplate(t, newUserUID(), recurrence.Monthly, recurrence.NewDate(2025, time.January, 1), nil, due)

	err := storage.DeactivateTemplate(context.Background(), template.ID, due.Add(time.Hour))
	assert.ErrorIs(t, err, ErrStaleTemplate)
	verify.VerifyTemplateState(t, template.ID, true, &due)

	require.NoError(t, storage.DeactivateTemplate(context.Background(), template.ID, due))
	verify.VerifyTemplateState(t, template.ID, false, nil)
}

func TestStorage_DeleteTemplateKeepsOccurrences(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := newUserUID()
	due := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	next := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)

	template := factory.CreateTemplate(t, user, recurrence.Monthly, recurrence.NewDate(2025, time.January, 15), nil, due)
	advanced := template
	advanced.Recurring.NextDue = &next
	occurrenceID, inserted, err := storage.SaveOccurrence(context.Background(), advanced, due, materialize(template, due))
	require.NoError(t, err)
	require.True(t, inserted)

	t.Run("other user cannot delete", func(t *testing.T) {
		err := storage.DeleteEntry(context.Background(), template.ID, newUserUID())
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	require.NoError(t, storage.DeleteEntry(context.Background(), template.ID, user))

	_, err = storage.ReadEntry(context.Background(), template.ID, user)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	got, err := storage.ReadEntry(context.Background(), occurrenceID, user)
	require.NoError(t, err)
	assert.Nil(t, got.TemplateID)
	assert.True(t, due.Equal(got.Date))

	t.Run("second delete reports not found", func(t *testing.T) {
		err := storage.DeleteEntry(context.Background(), template.ID, user)
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}
