package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vectormag-cms/models"
	"vectormag-cms/repositories"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 365
	topContentLimit  = 10
)

// Visit is a tracked event plus the request details it arrived with.
type Visit struct {
	models.TrackRequest
	ClientIP  string
	UserAgent string
}

// AnalyticsService records reader events off the request path. Track never
// blocks; events are dropped once the queue is full.
type AnalyticsService interface {
	Track(visit Visit) bool
	Dashboard(ctx context.Context, days int) (*models.DashboardStats, error)
	Start()
	Stop()
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	articleRepo   repositories.ArticleRepository
	log           zerolog.Logger
	now           func() time.Time

	queue    chan *models.PageHit
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository, articleRepo repositories.ArticleRepository, queueSize int, log zerolog.Logger) AnalyticsService {
	if queueSize < 1 {
		queueSize = 1
	}
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		articleRepo:   articleRepo,
		log:           log.With().Str("component", "analytics").Logger(),
		now:           time.Now,
		queue:         make(chan *models.PageHit, queueSize),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (s *analyticsService) Track(visit Visit) bool {
	eventType := visit.EventType
	if eventType == "" {
		eventType = models.EventView
	}
	hit := &models.PageHit{
		ArticleID:   visit.ArticleID,
		Path:        visit.Path,
		VisitorHash: visitorHash(visit.ClientIP, visit.UserAgent),
		UserAgent:   visit.UserAgent,
		Referrer:    visit.Referrer,
		EventType:   eventType,
		Metadata:    visit.Metadata,
		CreatedAt:   s.now(),
	}

	select {
	case s.queue <- hit:
		return true
	default:
		s.log.Warn().Str("path", hit.Path).Msg("analytics queue full, dropping event")
		return false
	}
}

// Start launches the writer goroutine. Stop drains what is queued and waits.
func (s *analyticsService) Start() {
	go s.run()
}

// Stop is safe to call more than once.
func (s *analyticsService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *analyticsService) run() {
	defer close(s.done)
	for {
		select {
		case hit := <-s.queue:
			s.record(hit)
		case <-s.stop:
			for {
				select {
				case hit := <-s.queue:
					s.record(hit)
				default:
					return
				}
			}
		}
	}
}

func (s *analyticsService) record(hit *models.PageHit) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.analyticsRepo.CreateHit(ctx, hit); err != nil {
		s.log.Error().Err(err).Str("path", hit.Path).Msg("failed to record page hit")
		return
	}
	if hit.EventType == models.EventView && hit.ArticleID != nil {
		if err := s.articleRepo.IncrementViews(ctx, *hit.ArticleID); err != nil {
			s.log.Error().Err(err).Uint("article_id", *hit.ArticleID).Msg("failed to increment views")
		}
	}
}

func (s *analyticsService) Dashboard(ctx context.Context, days int) (*models.DashboardStats, error) {
	if days < 1 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	since := s.now().AddDate(0, 0, -days)

	views, err := s.analyticsRepo.CountViews(ctx, since)
	if err != nil {
		return nil, err
	}
	visitors, err := s.analyticsRepo.CountVisitors(ctx, since)
	if err != nil {
		return nil, err
	}
	daily, err := s.analyticsRepo.DailyViews(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.analyticsRepo.TopArticles(ctx, since, topContentLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		Period:     fmt.Sprintf("%dd", days),
		Summary:    models.StatsSummary{TotalViews: views, UniqueVisitors: visitors},
		ChartData:  daily,
		TopContent: top,
	}, nil
}

func visitorHash(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + "-" + userAgent))
	return hex.EncodeToString(sum[:])
}
