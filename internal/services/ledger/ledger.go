// Package services содержит бизнес-логику журнала: создание и изменение записей,
// настройку повторения и кеширование.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finance-ledger/internal/cache"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/finance-ledger/internal/models"
	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

// EntryRepository определяет методы хранилища записей журнала.
type EntryRepository interface {
	// CreateEntry сохраняет запись и возвращает её ID.
	CreateEntry(ctx context.Context, entry models.Entry) (int64, error)
	// ReadEntry возвращает запись пользователя по ID.
	ReadEntry(ctx context.Context, id int64, userUID string) (*models.Entry, error)
	// UpdateEntry сохраняет изменённую запись.
	UpdateEntry(ctx context.Context, entry models.Entry) error
	// ListRecurringEntries возвращает активные шаблоны пользователя.
	ListRecurringEntries(ctx context.Context, userUID string) ([]*models.Entry, error)
	// DeleteEntry удаляет запись пользователя.
	DeleteEntry(ctx context.Context, id int64, userUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// LedgerService реализует операции над записями журнала.
type LedgerService struct {
	repo     EntryRepository
	cache    Cache
	log      *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewLedgerService создает новый экземпляр LedgerService.
func NewLedgerService(repo EntryRepository, cache Cache, log *slog.Logger, cacheTTL time.Duration) *LedgerService {
	return &LedgerService{
		repo:     repo,
		cache:    cache,
		log:      log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Create проверяет запрос, рассчитывает срок повторения и сохраняет запись.
func (s *LedgerService) Create(ctx context.Context, userUID string, req models.CreateEntryRequest) (*models.Entry, error) {
	const op = "services.ledger.Create"
	now := s.now()

	entryType, err := normalizeType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	amount, err := checkAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	date, err := parseEntryDate(req.Date, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec := recurrence.Recurrence{
		IsRecurring: req.IsRecurring,
		Frequency:   recurrence.NormalizeFrequency(req.FrequencyValue()),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := rec.Schedule(date, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := models.Entry{
		UserUID:     userUID,
		Amount:      amount,
		Type:        entryType,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Subcategory: req.Subcategory,
		Date:        date,
		PaymentMethod: models.PaymentMethod{
			Type:           paymentTypeOrDefault(req.PaymentType),
			Provider:       req.PaymentProvider,
			LastFourDigits: req.LastFourDigits,
		},
		Tags:      models.StringArray(req.Tags).Clone(),
		Recurring: rec,
		Metadata:  models.NewMetadata(now, models.CreatedByUser, models.SourceManual),
	}

	id, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	entry.ID = id

	s.log.Info("created ledger entry",
		slog.Int64("id", id),
		slog.Bool("is_recurring", rec.IsRecurring),
		slog.String("frequency", string(rec.Frequency)),
	)

	s.remember(ctx, &entry)
	if rec.IsRecurring {
		s.forget(ctx, cache.RecurringListKey(userUID))
	}
	return &entry, nil
}

// Read возвращает запись пользователя, используя кеш или репозиторий.
func (s *LedgerService) Read(ctx context.Context, userUID string, id int64) (*models.Entry, error) {
	const op = "services.ledger.Read"
	key := cache.EntryKey(userUID, id)

	var cached models.Entry
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	entry, err := s.repo.ReadEntry(ctx, id, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.remember(ctx, entry)
	return entry, nil
}

// Update применяет частичное изменение. Если запрос затрагивает повторение,
// срок пересчитывается заново; при ошибке проверки запись не меняется.
func (s *LedgerService) Update(ctx context.Context, userUID string, id int64, req models.UpdateEntryRequest) (*models.Entry, error) {
	const op = "services.ledger.Update"
	now := s.now()

	current, err := s.repo.ReadEntry(ctx, id, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated := *current

	if req.Amount != nil {
		if updated.Amount, err = checkAmount(*req.Amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if req.Type != nil {
		if updated.Type, err = normalizeType(*req.Type); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if req.Date != nil {
		if updated.Date, err = parseEntryDate(*req.Date, now); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.CategoryID != nil {
		category := *req.CategoryID
		updated.CategoryID = &category
	}
	if req.Subcategory != nil {
		updated.Subcategory = *req.Subcategory
	}
	if req.PaymentType != nil {
		updated.PaymentMethod.Type = paymentTypeOrDefault(*req.PaymentType)
	}
	if req.PaymentProvider != nil {
		updated.PaymentMethod.Provider = *req.PaymentProvider
	}
	if req.LastFourDigits != nil {
		updated.PaymentMethod.LastFourDigits = *req.LastFourDigits
	}
	if req.Tags != nil {
		updated.Tags = models.StringArray(req.Tags).Clone()
	}

	if req.TouchesRecurrence() {
		rec := updated.Recurring
		if req.IsRecurring != nil {
			rec.IsRecurring = *req.IsRecurring
		}
		frequency := req.FrequencyValue()
		if frequency != nil {
			rec.Frequency = recurrence.NormalizeFrequency(*frequency)
		}
		if req.StartDate != nil {
			start := *req.StartDate
			rec.StartDate = &start
		}
		if req.EndDate != nil {
			end := *req.EndDate
			rec.EndDate = &end
		}
		if !rec.IsRecurring && frequency == nil {
			rec.Disable()
		}
		if err := rec.Schedule(updated.Date, now); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		updated.Recurring = rec
	}

	updated.Metadata.Touch(now)
	if err := s.repo.UpdateEntry(ctx, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("updated ledger entry",
		slog.Int64("id", id),
		slog.Int("version", updated.Metadata.Version),
		slog.Bool("is_recurring", updated.Recurring.IsRecurring),
	)

	s.remember(ctx, &updated)
	s.forget(ctx, cache.RecurringListKey(userUID))
	return &updated, nil
}

// SetRecurring включает или выключает повторение и при необходимости меняет интервал.
// Без даты начала отсчёт ведётся от начала сегодняшнего дня.
func (s *LedgerService) SetRecurring(ctx context.Context, userUID string, id int64, req models.SetRecurringRequest) (*models.Entry, error) {
	const op = "services.ledger.SetRecurring"
	now := s.now()

	current, err := s.repo.ReadEntry(ctx, id, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated := *current

	rec := updated.Recurring
	rec.IsRecurring = req.IsRecurring != nil && *req.IsRecurring
	frequency := req.FrequencyValue()
	if frequency != "" {
		rec.Frequency = recurrence.NormalizeFrequency(frequency)
	}
	if !rec.IsRecurring && frequency == "" {
		rec.Disable()
	}
	if err := rec.Schedule(recurrence.StartOfDay(now), now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated.Recurring = rec
	updated.Metadata.Touch(now)

	if err := s.repo.UpdateEntry(ctx, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("changed entry recurrence",
		slog.Int64("id", id),
		slog.Bool("is_recurring", rec.IsRecurring),
		slog.String("frequency", string(rec.Frequency)),
	)

	s.remember(ctx, &updated)
	s.forget(ctx, cache.RecurringListKey(userUID))
	return &updated, nil
}

// Delete удаляет запись. Порождённые шаблоном записи остаются без ссылки на него.
func (s *LedgerService) Delete(ctx context.Context, userUID string, id int64) error {
	const op = "services.ledger.Delete"
	if err := s.repo.DeleteEntry(ctx, id, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deleted entry", slog.Int64("id", id))

	s.forget(ctx, cache.EntryKey(userUID, id), cache.RecurringListKey(userUID))
	return nil
}

// ListRecurring возвращает активные шаблоны пользователя.
func (s *LedgerService) ListRecurring(ctx context.Context, userUID string) ([]*models.Entry, error) {
	const op = "services.ledger.ListRecurring"
	key := cache.RecurringListKey(userUID)

	var cached []*models.Entry
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	entries, err := s.repo.ListRecurringEntries(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache recurring list", slog.String("key", key), sl.Err(err))
	}
	return entries, nil
}

// HandleMaterialized сбрасывает кеш шаблона и списка после события планировщика.
func (s *LedgerService) HandleMaterialized(ctx context.Context, body []byte) error {
	const op = "services.ledger.HandleMaterialized"
	var event models.MaterializedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// повторная доставка не исправит битое сообщение
		s.log.Error("dropping malformed event", slog.String("op", op), sl.Err(err))
		return nil
	}

	err := s.cache.Invalidate(ctx,
		cache.EntryKey(event.UserUID, event.TemplateID),
		cache.RecurringListKey(event.UserUID),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("invalidated cache after materialization",
		slog.Int64("template_id", event.TemplateID),
		slog.Int64("entry_id", event.EntryID),
	)
	return nil
}

func (s *LedgerService) remember(ctx context.Context, entry *models.Entry) {
	key := cache.EntryKey(entry.UserUID, entry.ID)
	if err := s.cache.Set(ctx, key, entry, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache entry", slog.String("key", key), sl.Err(err))
	}
}

func (s *LedgerService) forget(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}
