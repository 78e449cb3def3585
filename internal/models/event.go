package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterializedEvent публикуется после того, как планировщик создал запись из шаблона.
type MaterializedEvent struct {
	EntryID      int64           `json:"entry_id"`
	TemplateID   int64           `json:"template_id"`
	UserUID      string          `json:"user_uid"`
	Amount       decimal.Decimal `json:"amount"`
	OccurrenceAt time.Time       `json:"occurrence_at"`
}
