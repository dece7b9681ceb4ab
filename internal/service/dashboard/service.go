package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// Service дневная сводка дашборда поверх кеша
// Кеш - ускоритель чтения, не источник истины: при недоступном Redis сводка
// каждый раз пересчитывается из Postgres
type Service struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	cache           SummaryCache
	logger          Logger
}

// NewService создает новый экземпляр сервиса сводок
func NewService(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	cache SummaryCache,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		cache:           cache,
		logger:          logger,
	}
}

// GetOrCompute возвращает сводку из кеша либо пересчитывает и кеширует её
func (s *Service) GetOrCompute(ctx context.Context, restaurantID int64, date time.Time) (*domain.DashboardSummary, error) {
	if date.IsZero() {
		s.logger.Warn("GetOrCompute: missing date for restaurant=%d", restaurantID)
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if summary, ok := s.cache.Get(ctx, restaurantID, date); ok {
		s.logger.Info("GetOrCompute: cache hit for restaurant=%d date=%s",
			restaurantID, date.Format(domain.DateFormat))
		return summary, nil
	}

	details, err := s.reservationRepo.ListDetailsForDay(ctx, restaurantID, date)
	if err != nil {
		s.logger.Error("GetOrCompute: failed to load reservations for restaurant=%d date=%s: %v",
			restaurantID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetOrCompute - repository error: %v", ErrInternal, err)
	}

	totalTables, err := s.tableRepo.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Error("GetOrCompute: failed to count tables for restaurant=%d: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: GetOrCompute - repository error: %v", ErrInternal, err)
	}

	summary := BuildSummary(restaurantID, date, totalTables, details)

	s.cache.Set(ctx, summary)

	s.logger.Info("GetOrCompute: computed summary for restaurant=%d date=%s, bookings=%d guests=%d",
		restaurantID, date.Format(domain.DateFormat), summary.BookingsCount, summary.GuestsCount)

	return summary, nil
}
