// Package services содержит обход повторяющихся шаблонов: поиск наступивших сроков,
// материализацию записей и сдвиг шаблонов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/finance-ledger/internal/cache"
	"github.com/magabrotheeeer/finance-ledger/internal/config"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/finance-ledger/internal/metrics"
	"github.com/magabrotheeeer/finance-ledger/internal/models"
	"github.com/magabrotheeeer/finance-ledger/internal/storage/repository"
)

// LockKey - ключ аренды обхода в Redis.
const LockKey = "sweep:recurring:lock"

// ErrSweepLocked - обход уже выполняется другим процессом.
var ErrSweepLocked = errors.New("sweep is already running")

// TemplateRepository определяет методы хранилища, нужные обходу.
type TemplateRepository interface {
	FindDueTemplates(ctx context.Context, now time.Time, limit int) ([]*models.Entry, error)
	SaveOccurrence(ctx context.Context, template models.Entry, expectedNextDue time.Time, occurrence models.Entry) (int64, bool, error)
	DeactivateTemplate(ctx context.Context, id int64, expectedNextDue time.Time) error
}

// Cache - аренда запуска, счётчики сбоев и сброс кеша записей.
type Cache interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
	IncrFailures(ctx context.Context, templateID int64) (int64, error)
	ResetFailures(ctx context.Context, templateID int64) error
	Invalidate(ctx context.Context, keys ...string) error
}

// EventPublisher отправляет события о созданных записях.
type EventPublisher interface {
	PublishMaterialized(ctx context.Context, event models.MaterializedEvent) error
}

// SweepResult - итог одного обхода.
type SweepResult struct {
	RunID        string
	Due          int
	Materialized int
	Deactivated  int
	Failed       int
	Skipped      int
}

// SchedulerService выполняет обход повторяющихся шаблонов.
type SchedulerService struct {
	repo      TemplateRepository
	cache     Cache
	publisher EventPublisher
	metrics   *metrics.Sweep
	cfg       config.Scheduler
	log       *slog.Logger
	now       func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo TemplateRepository, cache Cache, publisher EventPublisher, m *metrics.Sweep,
	cfg config.Scheduler, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// outcome - результат обработки одного шаблона.
type outcome struct {
	materialized int
	deactivated  bool
	failed       bool
	stale        bool
}

// Sweep выполняет один обход: берёт аренду, выбирает наступившие шаблоны
// и обрабатывает их пулом воркеров. Сбой одного шаблона не прерывает обход.
func (s *SchedulerService) Sweep(ctx context.Context) (SweepResult, error) {
	const op = "services.scheduler.Sweep"
	result := SweepResult{RunID: uuid.NewString()}
	log := s.log.With(slog.String("op", op), slog.String("run_id", result.RunID))

	token, ok, err := s.cache.AcquireLock(ctx, LockKey, s.cfg.LockTTL)
	if err != nil {
		s.metrics.Runs.WithLabelValues(metrics.RunFailed).Inc()
		return result, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		log.Info("sweep skipped, another run holds the lock")
		s.metrics.Runs.WithLabelValues(metrics.RunSkipped).Inc()
		return result, fmt.Errorf("%s: %w", op, ErrSweepLocked)
	}
	defer func() {
		if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), LockKey, token); err != nil {
			log.Warn("failed to release sweep lock", sl.Err(err))
		}
	}()

	started := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.SweepTimeout)
	defer cancel()

	now := s.now()
	templates, err := s.repo.FindDueTemplates(runCtx, now, s.cfg.BatchSize)
	if err != nil {
		s.metrics.Runs.WithLabelValues(metrics.RunFailed).Inc()
		return result, fmt.Errorf("%s: %w", op, err)
	}
	result.Due = len(templates)
	s.metrics.Due.Add(float64(len(templates)))
	log.Info("sweep started", slog.Int("due", len(templates)), slog.Time("now", now))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	jobs := make(chan models.Entry)
	for range max(1, min(s.cfg.Workers, len(templates))) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for template := range jobs {
				out := s.processTemplate(runCtx, log, template, now)
				mu.Lock()
				result.add(out)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, template := range templates {
		select {
		case jobs <- *template:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	s.metrics.Duration.Observe(time.Since(started).Seconds())
	log.Info("sweep finished",
		slog.Int("due", result.Due),
		slog.Int("materialized", result.Materialized),
		slog.Int("deactivated", result.Deactivated),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
		slog.Duration("elapsed", time.Since(started)),
	)

	if err := runCtx.Err(); err != nil {
		s.metrics.Runs.WithLabelValues(metrics.RunFailed).Inc()
		return result, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Runs.WithLabelValues(metrics.RunCompleted).Inc()
	return result, nil
}

func (r *SweepResult) add(out outcome) {
	r.Materialized += out.materialized
	if out.deactivated {
		r.Deactivated++
	}
	if out.failed {
		r.Failed++
	}
	if out.stale {
		r.Skipped++
	}
}

// processTemplate догоняет пропущенные сроки шаблона, но не больше MaxCatchUp за обход.
// Каждый срок сохраняется отдельной транзакцией вместе со сдвигом шаблона.
func (s *SchedulerService) processTemplate(ctx context.Context, log *slog.Logger, template models.Entry, now time.Time) outcome {
	var out outcome
	log = log.With(slog.Int64("template_id", template.ID))

	for i := 0; i < s.cfg.MaxCatchUp && template.Recurring.Due(now); i++ {
		if err := ctx.Err(); err != nil {
			s.recordFailure(ctx, log, template.ID, err)
			out.failed = true
			break
		}
		expected := *template.Recurring.NextDue

		if template.Recurring.PastEnd(expected) {
			err := s.repo.DeactivateTemplate(ctx, template.ID, expected)
			switch {
			case errors.Is(err, repository.ErrStaleTemplate):
				log.Info("template changed by another run, skipping")
				out.stale = true
			case err != nil:
				s.recordFailure(ctx, log, template.ID, err)
				out.failed = true
			default:
				log.Info("template passed its end date, deactivated")
				out.deactivated = true
			}
			break
		}

		occurrence, err := Materialize(template, s.now())
		if err != nil {
			s.recordFailure(ctx, log, template.ID, err)
			out.failed = true
			break
		}

		advanced := template
		advanced.Recurring.Step()

		id, inserted, err := s.repo.SaveOccurrence(ctx, advanced, expected, occurrence)
		if errors.Is(err, repository.ErrStaleTemplate) {
			log.Info("template changed by another run, skipping", slog.Time("expected_next_due", expected))
			out.stale = true
			break
		}
		if err != nil {
			s.recordFailure(ctx, log, template.ID, err)
			out.failed = true
			break
		}

		if inserted {
			out.materialized++
			log.Debug("materialized occurrence", slog.Int64("entry_id", id), slog.Time("occurrence_at", expected))
			s.publish(ctx, log, models.MaterializedEvent{
				EntryID:      id,
				TemplateID:   template.ID,
				UserUID:      template.UserUID,
				Amount:       template.Amount,
				OccurrenceAt: expected,
			})
		} else {
			log.Info("occurrence already stored, template advanced", slog.Time("occurrence_at", expected))
		}

		template = advanced
		if !template.Recurring.IsRecurring {
			log.Info("template reached its end date, deactivated")
			out.deactivated = true
			break
		}
	}

	if !out.failed && !out.stale && template.Recurring.Due(now) {
		log.Info("catch-up limit reached, template stays due", slog.Int("max_catch_up", s.cfg.MaxCatchUp))
	}

	s.metrics.Materialized.Add(float64(out.materialized))
	switch {
	case out.failed:
		s.metrics.Failed.Inc()
	case out.stale:
		s.metrics.Stale.Inc()
	default:
		if err := s.cache.ResetFailures(ctx, template.ID); err != nil {
			log.Warn("failed to reset failure counter", sl.Err(err))
		}
	}
	if out.deactivated {
		s.metrics.Deactivated.Inc()
	}

	if out.materialized > 0 || out.deactivated {
		err := s.cache.Invalidate(ctx, cache.EntryKey(template.UserUID, template.ID), cache.RecurringListKey(template.UserUID))
		if err != nil {
			log.Warn("failed to invalidate template cache", sl.Err(err))
		}
	}
	return out
}

// recordFailure логирует сбой и увеличивает счётчик последовательных сбоев шаблона.
// Срок шаблона не меняется, следующий обход попробует снова.
func (s *SchedulerService) recordFailure(ctx context.Context, log *slog.Logger, templateID int64, cause error) {
	log.Warn("failed to process template", sl.Err(cause))

	failures, err := s.cache.IncrFailures(context.WithoutCancel(ctx), templateID)
	if err != nil {
		log.Warn("failed to count template failure", sl.Err(err))
		return
	}
	if s.cfg.FailureAlertThreshold > 0 && failures >= int64(s.cfg.FailureAlertThreshold) {
		log.Error("template keeps failing", slog.Int64("consecutive_failures", failures), sl.Err(cause))
	}
}

func (s *SchedulerService) publish(ctx context.Context, log *slog.Logger, event models.MaterializedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMaterialized(ctx, event); err != nil {
		log.Warn("failed to publish materialized event", slog.Int64("entry_id", event.EntryID), sl.Err(err))
	}
}
