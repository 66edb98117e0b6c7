package activity

import (
	"context"
	"errors"

	"github.com/suxessedu/suxess-web/internal/remote"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidRange = errors.New("start date is after end date")

type Service interface {
	ActivityLogs(ctx context.Context, page int, rng DateRange) (*remote.Page[Entry], error)
	LessonLogs(ctx context.Context, page int) (*remote.Page[LessonEntry], error)
}

type service struct {
	client    remote.Getter
	validator *validator.Validate
}

func NewService(client remote.Getter) Service {
	return &service{
		client:    client,
		validator: validator.New(),
	}
}

// ActivityLogs fetches one page of the activity log. The range is checked
// before anything is sent upstream.
func (s *service) ActivityLogs(ctx context.Context, page int, rng DateRange) (*remote.Page[Entry], error) {
	if err := s.validator.Struct(rng); err != nil {
		return nil, err
	}
	if rng.StartDate != "" && rng.EndDate != "" && rng.StartDate > rng.EndDate {
		return nil, ErrInvalidRange
	}
	return remote.Paged[Entry](ctx, s.client, "/admin/logs", remote.Query{Page: page, Filters: rng.Filters()})
}

func (s *service) LessonLogs(ctx context.Context, page int) (*remote.Page[LessonEntry], error) {
	return remote.Paged[LessonEntry](ctx, s.client, "/admin/lesson-logs", remote.Query{Page: page})
}
