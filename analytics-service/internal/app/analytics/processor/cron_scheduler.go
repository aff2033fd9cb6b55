package processor

import (
	"context"

	"sweetshop/analytics-service/internal/app/analytics/service"
	"sweetshop/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически прогревает кеш недельной и месячной сводок,
// чтобы первый запрос после инвалидации не упирался в полный скан журнала
type CronScheduler struct {
	cron         *cron.Cron
	analyticsSvc service.AnalyticsServiceInterface
}

func NewCronScheduler(analyticsSvc service.AnalyticsServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:         cron.New(),
		analyticsSvc: analyticsSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.warmSummaries(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Прогреваем сразу при старте, не дожидаясь первого тика
	s.warmSummaries(ctx)

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) warmSummaries(ctx context.Context) {
	if _, err := s.analyticsSvc.Weekly(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to warm weekly summary")
	}
	if _, err := s.analyticsSvc.Monthly(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to warm monthly summary")
	}
}
