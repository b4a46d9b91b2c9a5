package anomaly

import (
	"context"
	"fmt"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
)

type anomalyService struct {
	anomalyRepo anomaly.AnomalyRepository
}

func NewAnomalyService(anomalyRepo anomaly.AnomalyRepository) anomaly.AnomalyService {
	return &anomalyService{anomalyRepo: anomalyRepo}
}

// List implements anomaly.AnomalyService.
func (s *anomalyService) List(ctx context.Context, filter anomaly.ListFilter) (anomaly.ListResponse, error) {
	filter.Normalize()

	anomalies, total, err := s.anomalyRepo.List(ctx, filter)
	if err != nil {
		return anomaly.ListResponse{}, fmt.Errorf("list anomalies: %w", err)
	}

	responses := make([]anomaly.AnomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		responses = append(responses, anomaly.ToResponse(a))
	}

	return anomaly.ListResponse{
		Anomalies: responses,
		Total:     total,
		Page:      filter.Page,
		PerPage:   filter.PerPage,
	}, nil
}

// Get implements anomaly.AnomalyService.
func (s *anomalyService) Get(ctx context.Context, id string) (anomaly.AnomalyResponse, error) {
	a, err := s.anomalyRepo.GetByID(ctx, id)
	if err != nil {
		return anomaly.AnomalyResponse{}, err
	}
	return anomaly.ToResponse(a), nil
}

// Validate implements anomaly.AnomalyService.
func (s *anomalyService) Validate(ctx context.Context, req anomaly.ReviewRequest) (anomaly.AnomalyResponse, error) {
	return s.review(ctx, req, anomaly.StatusValidee, nil)
}

// Refuse implements anomaly.AnomalyService.
func (s *anomalyService) Refuse(ctx context.Context, req anomaly.ReviewRequest) (anomaly.AnomalyResponse, error) {
	return s.review(ctx, req, anomaly.StatusRefusee, nil)
}

// Correct implements anomaly.AnomalyService.
func (s *anomalyService) Correct(ctx context.Context, req anomaly.CorrectRequest) (anomaly.AnomalyResponse, error) {
	if err := req.Validate(); err != nil {
		return anomaly.AnomalyResponse{}, err
	}
	return s.review(ctx, anomaly.ReviewRequest{
		AnomalyID:  req.AnomalyID,
		ReviewerID: req.ReviewerID,
		Note:       req.Note,
	}, anomaly.StatusCorrigee, req.EcartMinutes)
}

// review applies one status transition. Only en_attente anomalies can
// move; the engine never touches a record past this point either.
func (s *anomalyService) review(ctx context.Context, req anomaly.ReviewRequest, target anomaly.Status, ecart *int) (anomaly.AnomalyResponse, error) {
	if err := req.Validate(); err != nil {
		return anomaly.AnomalyResponse{}, err
	}

	a, err := s.anomalyRepo.GetByID(ctx, req.AnomalyID)
	if err != nil {
		return anomaly.AnomalyResponse{}, err
	}

	if a.Status != anomaly.StatusEnAttente {
		return anomaly.AnomalyResponse{}, anomaly.ErrAlreadyReviewed
	}

	now := time.Now()
	a.Status = target
	a.ReviewedBy = &req.ReviewerID
	a.ReviewedAt = &now
	if req.Note != "" {
		a.ReviewNote = &req.Note
	}
	if ecart != nil {
		a.Details.EcartMinutes = ecart
	}

	if err := s.anomalyRepo.Update(ctx, a); err != nil {
		return anomaly.AnomalyResponse{}, fmt.Errorf("update anomaly: %w", err)
	}

	return anomaly.ToResponse(a), nil
}
