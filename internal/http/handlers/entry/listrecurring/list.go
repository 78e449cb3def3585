// Package listrecurring реализует HTTP-обработчик списка активных повторяющихся шаблонов пользователя.
package listrecurring

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finance-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finance-ledger/internal/http/response"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/finance-ledger/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListRecurring(ctx context.Context, userUID string) ([]*models.Entry, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список активных шаблонов
// @Description Возвращает активные шаблоны пользователя по возрастанию ближайшего срока.
// @Tags entries
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /entries/recurring [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.listrecurring"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user_uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	entries, err := h.service.ListRecurring(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list recurring entries", sl.Err(err))
		status, resp := response.FromServiceError(err, "could not list recurring entries")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}
	if entries == nil {
		entries = []*models.Entry{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entries": entries,
		"count":   len(entries),
	}))
}
