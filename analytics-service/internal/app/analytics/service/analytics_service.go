package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"
	"sweetshop/analytics-service/internal/app/analytics/repository"
	"sweetshop/analytics-service/internal/app/analytics/util"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/metrics"
)

var (
	// ErrInvalidRange возвращается когда начало периода позже конца
	ErrInvalidRange = errors.New("start date is after end date")
	// ErrInvalidInput возвращается при отсутствующей или кривой дате
	ErrInvalidInput = errors.New("invalid date format, expected YYYY-MM-DD")
)

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodCustom  = "custom"

	// Сводки дорогие на больших журналах, но быстро устаревают
	summaryCacheTTL = 60 * time.Second

	dateLayout = "2006-01-02"

	bestSellersLimit = 10
)

// AnalyticsService строит сводки продаж по журналу покупок
// Сводка всегда вычисляется заново по записям за период: никаких
// инкрементальных счётчиков, согласованность гарантируется самим журналом
type AnalyticsService struct {
	purchases repository.PurchaseReader
	cache     util.SummaryCache
}

// NewAnalyticsService создает новый сервис аналитики
func NewAnalyticsService(purchases repository.PurchaseReader, cache util.SummaryCache) *AnalyticsService {
	return &AnalyticsService{
		purchases: purchases,
		cache:     cache,
	}
}

// Weekly строит сводку за последние 7 дней от текущего момента UTC
func (s *AnalyticsService) Weekly(ctx context.Context) (*entity.Summary, error) {
	now := time.Now().UTC()
	return s.summarize(ctx, PeriodWeekly, PeriodWeekly, now.AddDate(0, 0, -7), now)
}

// Monthly строит сводку за последние 30 дней от текущего момента UTC
func (s *AnalyticsService) Monthly(ctx context.Context) (*entity.Summary, error) {
	now := time.Now().UTC()
	return s.summarize(ctx, PeriodMonthly, PeriodMonthly, now.AddDate(0, 0, -30), now)
}

// Custom строит сводку за произвольный период из дат YYYY-MM-DD
// Период расширяется до полных UTC-суток: start_date == end_date
// покрывает ровно один день
func (s *AnalyticsService) Custom(ctx context.Context, startStr, endStr string) (*entity.Summary, error) {
	startDay, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
	if err != nil {
		return nil, ErrInvalidInput
	}
	endDay, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
	if err != nil {
		return nil, ErrInvalidInput
	}

	if startDay.After(endDay) {
		return nil, ErrInvalidRange
	}

	start := startDay
	end := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)

	cacheKey := fmt.Sprintf("%s:%s:%s", PeriodCustom, startStr, endStr)
	return s.summarize(ctx, PeriodCustom, cacheKey, start, end)
}

// summarize возвращает сводку за период, используя Redis кеш с TTL 60 секунд
func (s *AnalyticsService) summarize(ctx context.Context, period, cacheKey string, start, end time.Time) (*entity.Summary, error) {
	metrics.AnalyticsRequests.WithLabelValues(period).Inc()

	summary, err := s.cache.GetSummary(ctx, cacheKey)
	if err == nil && summary != nil {
		return summary, nil
	}

	records, err := s.purchases.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	summary = buildSummary(period, start, end, records)

	if err := s.cache.SetSummary(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
		// Сводка уже построена, проблемы с кешем не критичны
		logger.Warn().Err(err).Str("period", period).Msg("failed to cache summary")
	}

	return summary, nil
}

// buildSummary агрегирует записи журнала в сводку
// Пустой период даёт нулевые суммы и пустые списки
func buildSummary(period string, start, end time.Time, records []entity.PurchaseRecord) *entity.Summary {
	summary := &entity.Summary{
		Period:            period,
		StartDate:         start,
		EndDate:           end,
		RevenueTrend:      []entity.DailyRevenue{},
		RevenueByCategory: []entity.CategoryRevenue{},
		BestSellers:       []entity.BestSeller{},
	}

	dailyRevenue := make(map[string]*entity.DailyRevenue)
	categoryRevenue := make(map[string]*entity.CategoryRevenue)
	sellers := make(map[string]*entity.BestSeller)

	for i := range records {
		rec := &records[i]

		summary.TotalRevenue += rec.TotalAmount
		summary.TotalOrders++
		summary.TotalItemsSold += rec.Quantity

		// Выручка по UTC-дням
		day := rec.PurchaseDate.UTC().Format(dateLayout)
		if entry, ok := dailyRevenue[day]; ok {
			entry.Revenue += rec.TotalAmount
			entry.Orders++
		} else {
			dailyRevenue[day] = &entity.DailyRevenue{Date: day, Revenue: rec.TotalAmount, Orders: 1}
		}

		// Выручка по категориям
		if entry, ok := categoryRevenue[rec.Category]; ok {
			entry.Revenue += rec.TotalAmount
			entry.ItemsSold += rec.Quantity
		} else {
			categoryRevenue[rec.Category] = &entity.CategoryRevenue{
				Category:  rec.Category,
				Revenue:   rec.TotalAmount,
				ItemsSold: rec.Quantity,
			}
		}

		// Продажи по сладостям: ключ - id, имя берём из последней записи,
		// чтобы переименованная сладость не раздваивалась в топе
		if entry, ok := sellers[rec.SweetID]; ok {
			entry.Revenue += rec.TotalAmount
			entry.Sold += rec.Quantity
			entry.Name = rec.SweetName
		} else {
			sellers[rec.SweetID] = &entity.BestSeller{
				SweetID: rec.SweetID,
				Name:    rec.SweetName,
				Sold:    rec.Quantity,
				Revenue: rec.TotalAmount,
			}
		}
	}

	for _, entry := range dailyRevenue {
		summary.RevenueTrend = append(summary.RevenueTrend, *entry)
	}
	sort.Slice(summary.RevenueTrend, func(i, j int) bool {
		return summary.RevenueTrend[i].Date < summary.RevenueTrend[j].Date
	})

	for _, entry := range categoryRevenue {
		summary.RevenueByCategory = append(summary.RevenueByCategory, *entry)
	}
	sort.Slice(summary.RevenueByCategory, func(i, j int) bool {
		a, b := summary.RevenueByCategory[i], summary.RevenueByCategory[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Category < b.Category
	})

	for _, entry := range sellers {
		summary.BestSellers = append(summary.BestSellers, *entry)
	}
	sort.Slice(summary.BestSellers, func(i, j int) bool {
		a, b := summary.BestSellers[i], summary.BestSellers[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	if len(summary.BestSellers) > bestSellersLimit {
		summary.BestSellers = summary.BestSellers[:bestSellersLimit]
	}

	return summary
}

// InvalidateCache сбрасывает все закешированные сводки
// Вызывается Kafka consumer-ом на любое событие каталога или склада
func (s *AnalyticsService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateSummaries(ctx)
}
