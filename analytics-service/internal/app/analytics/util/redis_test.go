package util

import (
	"context"
	"testing"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SummaryCacheTestSuite тестовый suite для кеша сводок
type SummaryCacheTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *RedisClient
}

func TestSummaryCacheSuite(t *testing.T) {
	suite.Run(t, new(SummaryCacheTestSuite))
}

func (s *SummaryCacheTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client, err = NewRedisClient(s.miniRedis.Addr(), "", 0)
	require.NoError(s.T(), err)
}

func (s *SummaryCacheTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *SummaryCacheTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *SummaryCacheTestSuite) TestSetAndGetSummary() {
	ctx := context.Background()
	summary := &entity.Summary{
		Period:         "weekly",
		TotalRevenue:   150.5,
		TotalOrders:    7,
		TotalItemsSold: 20,
		BestSellers: []entity.BestSeller{
			{SweetID: "s-1", Name: "Jalebi", Sold: 10, Revenue: 50.0},
		},
	}

	err := s.client.SetSummary(ctx, "weekly", summary, 60*time.Second)
	s.NoError(err)

	result, err := s.client.GetSummary(ctx, "weekly")
	s.NoError(err)
	s.Require().NotNil(result)
	s.Equal("weekly", result.Period)
	s.Equal(150.5, result.TotalRevenue)
	s.Require().Len(result.BestSellers, 1)
	s.Equal("Jalebi", result.BestSellers[0].Name)
}

func (s *SummaryCacheTestSuite) TestGetSummary_CacheMiss() {
	ctx := context.Background()

	result, err := s.client.GetSummary(ctx, "monthly")
	s.NoError(err)
	s.Nil(result)
}

func (s *SummaryCacheTestSuite) TestSummaryExpires() {
	ctx := context.Background()

	err := s.client.SetSummary(ctx, "weekly", &entity.Summary{Period: "weekly"}, 60*time.Second)
	s.NoError(err)

	// Перематываем время за пределы TTL
	s.miniRedis.FastForward(61 * time.Second)

	result, err := s.client.GetSummary(ctx, "weekly")
	s.NoError(err)
	s.Nil(result)
}

func (s *SummaryCacheTestSuite) TestInvalidateSummaries() {
	ctx := context.Background()

	s.NoError(s.client.SetSummary(ctx, "weekly", &entity.Summary{Period: "weekly"}, time.Minute))
	s.NoError(s.client.SetSummary(ctx, "monthly", &entity.Summary{Period: "monthly"}, time.Minute))
	s.NoError(s.client.SetSummary(ctx, "custom:2026-08-01:2026-08-31", &entity.Summary{Period: "custom"}, time.Minute))

	// Чужие ключи инвалидация не трогает
	s.miniRedis.Set("sweets:list:all", "cached-listing")

	err := s.client.InvalidateSummaries(ctx)
	s.NoError(err)

	result, err := s.client.GetSummary(ctx, "weekly")
	s.NoError(err)
	s.Nil(result)

	result, err = s.client.GetSummary(ctx, "custom:2026-08-01:2026-08-31")
	s.NoError(err)
	s.Nil(result)

	s.True(s.miniRedis.Exists("sweets:list:all"))
}

func (s *SummaryCacheTestSuite) TestInvalidateSummaries_EmptyCache() {
	ctx := context.Background()

	err := s.client.InvalidateSummaries(ctx)
	s.NoError(err)
}
