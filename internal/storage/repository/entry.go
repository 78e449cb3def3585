package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/finance-ledger/internal/models"
)

const entryColumns = `id, user_uid, amount, type, description, category_id, subcategory, entry_date,
	payment_type, payment_provider, last_four_digits, tags,
	is_recurring, frequency, start_date, end_date, next_due, template_id,
	created_at, updated_at, created_by, source, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(
		&e.ID, &e.UserUID, &e.Amount, &e.Type, &e.Description, &e.CategoryID, &e.Subcategory, &e.Date,
		&e.PaymentMethod.Type, &e.PaymentMethod.Provider, &e.PaymentMethod.LastFourDigits, &e.Tags,
		&e.Recurring.IsRecurring, &e.Recurring.Frequency, &e.Recurring.StartDate, &e.Recurring.EndDate,
		&e.Recurring.NextDue, &e.TemplateID,
		&e.Metadata.CreatedAt, &e.Metadata.UpdatedAt, &e.Metadata.CreatedBy, &e.Metadata.Source, &e.Metadata.Version,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*models.Entry, error) {
	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateEntry вставляет новую запись и возвращает её ID.
func (s *Storage) CreateEntry(ctx context.Context, entry models.Entry) (int64, error) {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id, err := insertEntry(ctx, s.DB, entry, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertEntry вставляет запись. Для материализованных записей occurrenceAt задаёт ключ идемпотентности
// вместе с template_id; при повторной вставке того же повторения возвращается sql.ErrNoRows.
func insertEntry(ctx context.Context, q queryRower, e models.Entry, occurrenceAt any) (int64, error) {
	query := `INSERT INTO entries (user_uid, amount, type, description, category_id, subcategory, entry_date,
				payment_type, payment_provider, last_four_digits, tags,
				is_recurring, frequency, start_date, end_date, next_due, template_id, occurrence_at,
				created_at, updated_at, created_by, source, version)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
				$19, $20, $21, $22, $23)
			  ON CONFLICT (template_id, occurrence_at) DO NOTHING
			  RETURNING id`
	var id int64
	err := q.QueryRowContext(ctx, query,
		e.UserUID, e.Amount, string(e.Type), e.Description, e.CategoryID, e.Subcategory, e.Date,
		e.PaymentMethod.Type, e.PaymentMethod.Provider, e.PaymentMethod.LastFourDigits, e.Tags,
		e.Recurring.IsRecurring, string(e.Recurring.Frequency), e.Recurring.StartDate, e.Recurring.EndDate,
		e.Recurring.NextDue, e.TemplateID, occurrenceAt,
		e.Metadata.CreatedAt, e.Metadata.UpdatedAt, e.Metadata.CreatedBy, e.Metadata.Source, e.Metadata.Version,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ReadEntry возвращает запись пользователя по ID. Чужая запись неотличима от отсутствующей.
func (s *Storage) ReadEntry(ctx context.Context, id int64, userUID string) (*models.Entry, error) {
	const op = "storage.ReadEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND user_uid = $2`
	e, err := scanEntry(s.DB.QueryRowContext(ctx, query, id, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrEntryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// UpdateEntry сохраняет все изменяемые поля записи, включая состояние повторения.
func (s *Storage) UpdateEntry(ctx context.Context, e models.Entry) error {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE entries
			  SET amount = $1, type = $2, description = $3, category_id = $4, subcategory = $5, entry_date = $6,
			      payment_type = $7, payment_provider = $8, last_four_digits = $9, tags = $10,
			      is_recurring = $11, frequency = $12, start_date = $13, end_date = $14, next_due = $15,
			      updated_at = $16, version = $17
			  WHERE id = $18 AND user_uid = $19`
	result, err := s.DB.ExecContext(ctx, query,
		e.Amount, string(e.Type), e.Description, e.CategoryID, e.Subcategory, e.Date,
		e.PaymentMethod.Type, e.PaymentMethod.Provider, e.PaymentMethod.LastFourDigits, e.Tags,
		e.Recurring.IsRecurring, string(e.Recurring.Frequency), e.Recurring.StartDate, e.Recurring.EndDate,
		e.Recurring.NextDue, e.Metadata.UpdatedAt, e.Metadata.Version,
		e.ID, e.UserUID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrEntryNotFound)
	}
	return nil
}

// ListRecurringEntries возвращает активные шаблоны пользователя в порядке ближайшего срока.
func (s *Storage) ListRecurringEntries(ctx context.Context, userUID string) ([]*models.Entry, error) {
	const op = "storage.ListRecurringEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + entryColumns + `
			  FROM entries
			  WHERE user_uid = $1 AND is_recurring = true
			  ORDER BY next_due NULLS LAST, id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
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

// DeleteEntry удаляет запись пользователя. У порождённых шаблоном записей template_id обнуляется.
func (s *Storage) DeleteEntry(ctx context.Context, id int64, userUID string) error {
	const op = "storage.DeleteEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND user_uid = $2`, id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrEntryNotFound)
	}
	return nil
}
