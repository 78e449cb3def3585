package response

import (
	"context"
	"errors"
	"net/http"

	ledgerservice "github.com/magabrotheeeer/finance-ledger/internal/services/ledger"
	"github.com/magabrotheeeer/finance-ledger/internal/storage/repository"
)

// FromServiceError сопоставляет ошибку сервиса журнала HTTP-статусу и телу ответа.
// Ошибки проверки дают 422 с кодом, отсутствие записи 404, прочее 500 с текстом fallback.
func FromServiceError(err error, fallback string) (int, Response) {
	if code := ledgerservice.ValidationCode(err); code != "" {
		return http.StatusUnprocessableEntity, ErrorWithCode(code, rootMessage(err))
	}
	switch {
	case errors.Is(err, repository.ErrEntryNotFound):
		return http.StatusNotFound, Error("entry not found")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, Error("request timed out")
	}
	return http.StatusInternalServerError, Error(fallback)
}

// rootMessage возвращает текст самой глубокой ошибки без префиксов операций.
func rootMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}
