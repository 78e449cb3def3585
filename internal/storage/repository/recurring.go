package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/finance-ledger/internal/models"
)

// FindDueTemplates возвращает не больше limit активных шаблонов, срок которых наступил к now.
func (s *Storage) FindDueTemplates(ctx context.Context, now time.Time, limit int) ([]*models.Entry, error) {
	const op = "storage.FindDueTemplates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + entryColumns + `
			  FROM entries
			  WHERE is_recurring = true AND next_due IS NOT NULL AND next_due <= $1
			  ORDER BY next_due, id
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result, err := scanEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SaveOccurrence в одной транзакции вставляет материализованную запись и сдвигает шаблон.
//
// Обновление шаблона выполняется только если его next_due всё ещё равен expectedNextDue,
// иначе транзакция откатывается с ErrStaleTemplate. Если такое повторение уже было вставлено,
// запись не дублируется: возвращается inserted=false, а шаблон всё равно сдвигается.
func (s *Storage) SaveOccurrence(ctx context.Context, template models.Entry, expectedNextDue time.Time,
	occurrence models.Entry) (id int64, inserted bool, err error) {
	const op = "storage.SaveOccurrence"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	occurrenceAt := occurrence.Date
	id, err = insertEntry(ctx, tx, occurrence, occurrenceAt)
	switch {
	case err == nil:
		inserted = true
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	if err = advanceTemplate(ctx, tx, template, expectedNextDue); err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return id, inserted, nil
}

// DeactivateTemplate выключает исчерпанный шаблон, если его срок не менялся.
func (s *Storage) DeactivateTemplate(ctx context.Context, id int64, expectedNextDue time.Time) error {
	const op = "storage.DeactivateTemplate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE entries
			  SET is_recurring = false, next_due = NULL, updated_at = NOW()
			  WHERE id = $1 AND is_recurring = true AND next_due = $2`
	result, err := s.DB.ExecContext(ctx, query, id, expectedNextDue)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrStaleTemplate)
	}
	return nil
}

// CountOccurrences возвращает число записей, порождённых шаблоном.
func (s *Storage) CountOccurrences(ctx context.Context, templateID int64) (int, error) {
	const op = "storage.CountOccurrences"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE template_id = $1`, templateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func advanceTemplate(ctx context.Context, ex execer, template models.Entry, expectedNextDue time.Time) error {
	query := `UPDATE entries
			  SET is_recurring = $1, next_due = $2, updated_at = NOW()
			  WHERE id = $3 AND is_recurring = true AND next_due = $4`
	result, err := ex.ExecContext(ctx, query,
		template.Recurring.IsRecurring, template.Recurring.NextDue, template.ID, expectedNextDue)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStaleTemplate
	}
	return nil
}
