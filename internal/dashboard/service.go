package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/suxessedu/suxess-web/internal/activity"
	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/remote"
	"github.com/suxessedu/suxess-web/internal/request"

	"golang.org/x/sync/errgroup"
)

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	Analytics(ctx context.Context) (*Analytics, error)
}

type service struct {
	client remote.Getter
}

func NewService(client remote.Getter) Service {
	return &service{client: client}
}

// Overview loads the four dashboard sources concurrently. Any failure fails
// the whole dashboard; a 401 from any source is returned ahead of other
// failures so the session still ends.
func (s *service) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	errs := make([]error, 4)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		errs[0] = s.client.Get(gctx, "/admin/stats", nil, &o.Stats)
		return errs[0]
	})
	g.Go(func() error {
		o.Activity, errs[1] = remote.List[activity.Entry](gctx, s.client, "/admin/activity-logs")
		return errs[1]
	})
	g.Go(func() error {
		o.RecentRequests, errs[2] = remote.List[request.TutorRequest](gctx, s.client, "/admin/recent-requests")
		return errs[2]
	})
	g.Go(func() error {
		errs[3] = s.client.Get(gctx, "/admin/chart-data", nil, &o.Chart)
		return errs[3]
	})

	if err := g.Wait(); err != nil {
		if joined := errors.Join(errs...); errors.Is(joined, api.ErrUnauthorized) {
			err = joined
		}
		return nil, fmt.Errorf("load dashboard: %w", err)
	}
	return &o, nil
}

func (s *service) Analytics(ctx context.Context) (*Analytics, error) {
	var a Analytics
	if err := s.client.Get(ctx, "/admin/analytics", nil, &a); err != nil {
		return nil, fmt.Errorf("load analytics: %w", err)
	}
	return &a, nil
}
