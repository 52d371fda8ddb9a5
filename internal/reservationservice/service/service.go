package service

import (
	"context"
	"fmt"
	"time"

	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"
)

type ReservationRepository interface {
	CreateReservation(ctx context.Context, res models.NewReservation) (int64, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
}

type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

type ReservationService struct {
	repo      ReservationRepository
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewReservationService wires the reservation pipeline. publisher may be nil.
func NewReservationService(repo ReservationRepository, publisher Publisher, m *metrics.Metrics, logger *logger.Logger) *ReservationService {
	return &ReservationService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *ReservationService) CreateReservation(ctx context.Context, res models.NewReservation, requestID string) (int64, error) {
	log := s.logger.RequestID(requestID)

	id, err := s.repo.CreateReservation(ctx, res)
	if err != nil {
		log.Action("reservation_creation_failed").Error("Failed to create reservation in database", err)
		return 0, fmt.Errorf("failed to create reservation: %w", err)
	}
	s.metrics.ReservationsCreated.Inc()

	if s.publisher != nil {
		n := models.Notification{
			Type:      models.NotificationReservationCreated,
			ID:        id,
			Date:      res.Date.Format("2006-01-02"),
			Time:      res.Time,
			Guests:    res.Guests,
			RequestID: requestID,
			Timestamp: time.Now().UTC(),
		}
		if res.Name != nil {
			n.Customer = *res.Name
		}
		if err := s.publisher.Publish(ctx, n); err != nil {
			log.Action("message_publishing_failed").Error("Failed to publish reservation notification", err)
		}
	}

	return id, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, requestID string) ([]models.Reservation, error) {
	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		s.logger.RequestID(requestID).Action("db_query_failed").Error("Failed to list reservations", err)
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return reservations, nil
}
