package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vectormag-cms/models"
)

func TestTrack_RecordsAndCountsViews(t *testing.T) {
	hits := new(mockAnalyticsRepo)
	articles := new(mockArticleRepo)

	var mu sync.Mutex
	var recorded []*models.PageHit
	hits.On("CreateHit", mock.Anything, mock.AnythingOfType("*models.PageHit")).
		Run(func(args mock.Arguments) {
			mu.Lock()
			recorded = append(recorded, args.Get(1).(*models.PageHit))
			mu.Unlock()
		}).Return(nil)
	articles.On("IncrementViews", mock.Anything, uint(5)).Return(nil).Once()

	svc := NewAnalyticsService(hits, articles, 8, zerolog.Nop())
	svc.Start()

	id := uint(5)
	assert.True(t, svc.Track(Visit{TrackRequest: models.TrackRequest{ArticleID: &id, Path: "/a"}, ClientIP: "1.2.3.4", UserAgent: "ua"}))
	assert.True(t, svc.Track(Visit{TrackRequest: models.TrackRequest{ArticleID: &id, Path: "/a", EventType: models.EventScroll}, ClientIP: "1.2.3.4", UserAgent: "ua"}))
	assert.True(t, svc.Track(Visit{TrackRequest: models.TrackRequest{Path: "/about"}, ClientIP: "5.6.7.8", UserAgent: "ua"}))
	svc.Stop()

	require.Len(t, recorded, 3)
	assert.Equal(t, models.EventView, recorded[0].EventType)
	assert.Equal(t, recorded[0].VisitorHash, recorded[1].VisitorHash)
	assert.NotEqual(t, recorded[0].VisitorHash, recorded[2].VisitorHash)
	assert.Len(t, recorded[0].VisitorHash, 64)
	articles.AssertExpectations(t)
}

func TestTrack_DropsWhenFull(t *testing.T) {
	svc := NewAnalyticsService(new(mockAnalyticsRepo), new(mockArticleRepo), 1, zerolog.Nop())

	// not started: nothing drains the queue
	assert.True(t, svc.Track(Visit{TrackRequest: models.TrackRequest{Path: "/"}}))
	assert.False(t, svc.Track(Visit{TrackRequest: models.TrackRequest{Path: "/"}}))
}

func TestStop_Twice(t *testing.T) {
	hits := new(mockAnalyticsRepo)
	hits.On("CreateHit", mock.Anything, mock.AnythingOfType("*models.PageHit")).Return(nil).Once()

	svc := NewAnalyticsService(hits, new(mockArticleRepo), 4, zerolog.Nop())
	svc.Start()
	assert.True(t, svc.Track(Visit{TrackRequest: models.TrackRequest{Path: "/about"}}))

	svc.Stop()
	assert.NotPanics(t, svc.Stop)
	hits.AssertExpectations(t)
}

func TestDashboard(t *testing.T) {
	hits := new(mockAnalyticsRepo)
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -30)

	hits.On("CountViews", mock.Anything, since).Return(int64(120), nil)
	hits.On("CountVisitors", mock.Anything, since).Return(int64(40), nil)
	hits.On("DailyViews", mock.Anything, since).Return([]models.DailyViews{{Date: "2026-03-30", Views: 12}}, nil)
	hits.On("TopArticles", mock.Anything, since, 10).Return([]models.TopArticle{{Title: "Top", Slug: "top", Views: 50}}, nil)

	svc := NewAnalyticsService(hits, new(mockArticleRepo), 1, zerolog.Nop()).(*analyticsService)
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "30d", stats.Period)
	assert.Equal(t, int64(120), stats.Summary.TotalViews)
	assert.Equal(t, int64(40), stats.Summary.UniqueVisitors)
	assert.Len(t, stats.ChartData, 1)
	assert.Equal(t, "top", stats.TopContent[0].Slug)
}
