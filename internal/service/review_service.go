package service

import (
	"errors"
	"fmt"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// ReviewService handles moderation of customer reviews.
type ReviewService struct {
	repo core.ReviewRepository
}

func NewReviewService(repo core.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

func (s *ReviewService) PendingReviews() ([]*core.Review, error) {
	return s.repo.FindByStatus("pending")
}

func (s *ReviewService) ApprovedReviews() ([]*core.Review, error) {
	return s.repo.FindByStatus("approved")
}

func (s *ReviewService) Moderate(id string, approve bool) error {
	status := "rejected"
	if approve {
		status = "approved"
	}
	if err := s.repo.SetStatus(id, status); err != nil {
		return fmt.Errorf("failed to moderate review: %w", err)
	}
	return nil
}

func (s *ReviewService) Reply(id, reply string) error {
	if reply == "" {
		return errors.New("reply text is required")
	}
	return s.repo.SetReply(id, reply)
}
