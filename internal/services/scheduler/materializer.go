package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/finance-ledger/internal/models"
)

// ErrNoDueDate - у шаблона нет срока, материализовать нечего.
var ErrNoDueDate = errors.New("template has no next due date")

// Materialize строит конкретную запись для текущего срока шаблона.
// Запись датируется сроком, не повторяется и хранит настройки шаблона как историю.
func Materialize(template models.Entry, now time.Time) (models.Entry, error) {
	const op = "services.scheduler.Materialize"
	if template.Recurring.NextDue == nil {
		return models.Entry{}, fmt.Errorf("%s: template %d: %w", op, template.ID, ErrNoDueDate)
	}

	var category *string
	if template.CategoryID != nil {
		c := *template.CategoryID
		category = &c
	}
	templateID := template.ID

	return models.Entry{
		UserUID:       template.UserUID,
		Amount:        template.Amount,
		Type:          template.Type,
		Description:   template.Description,
		CategoryID:    category,
		Subcategory:   template.Subcategory,
		Date:          *template.Recurring.NextDue,
		PaymentMethod: template.PaymentMethod,
		Tags:          template.Tags.Clone(),
		Recurring:     template.Recurring.Provenance(),
		TemplateID:    &templateID,
		Metadata:      models.NewMetadata(now, models.CreatedByScheduler, models.SourceRecurring),
	}, nil
}
