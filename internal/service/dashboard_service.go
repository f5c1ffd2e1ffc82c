package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/transport"
)

const (
	statsPath         = "/admin/dashboard/stats"
	revenuePath       = "/admin/dashboard/revenue"
	recentTicketsPath = "/admin/dashboard/recent-tickets"

	NoticeDashboardFailed = "Failed to load dashboard"
)

type DashboardService interface {
	Overview(ctx context.Context) (*model.Dashboard, error)
}

type dashboardService struct {
	client *transport.Client
}

func NewDashboardService(client *transport.Client) DashboardService {
	return &dashboardService{client: client}
}

// Overview loads the summary counts, the revenue series and the latest
// tickets concurrently. Any failure fails the whole overview.
func (s *dashboardService) Overview(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.fetch(gctx, statsPath, &d.Stats) })
	g.Go(func() error { return s.fetch(gctx, revenuePath, &d.Revenue) })
	g.Go(func() error { return s.fetch(gctx, recentTicketsPath, &d.RecentTickets) })
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard")
		return nil, core.NewNoticeError(core.Notice(err, NoticeDashboardFailed), err)
	}
	return &d, nil
}

func (s *dashboardService) fetch(ctx context.Context, path string, v interface{}) error {
	body, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return err
	}
	return transport.DecodeData(body, v)
}
