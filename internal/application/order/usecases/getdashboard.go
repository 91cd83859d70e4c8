package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/infrastructure/cache"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// GetDashboardUseCase loads the admin panel headline figures and the monthly
// revenue series.
type GetDashboardUseCase struct {
	orderRepo     order.Repository
	statsCache    cache.DashboardStatsCache
	revenueMonths int
	logger        logger.Interface
}

// NewGetDashboardUseCase creates the use case. statsCache may be nil.
func NewGetDashboardUseCase(
	orderRepo order.Repository,
	statsCache cache.DashboardStatsCache,
	revenueMonths int,
	log logger.Interface,
) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		orderRepo:     orderRepo,
		statsCache:    statsCache,
		revenueMonths: revenueMonths,
		logger:        log,
	}
}

func (uc *GetDashboardUseCase) Execute(ctx context.Context) (*dto.DashboardDTO, error) {
	uc.logger.Debugw("fetching order dashboard")

	var (
		stats   *order.Stats
		revenue []order.RevenuePoint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := uc.loadStats(gctx)
		if err != nil {
			return storageError(err, "Failed to load dashboard stats")
		}
		stats = s
		return nil
	})

	g.Go(func() error {
		points, err := uc.orderRepo.MonthlyRevenue(gctx, uc.revenueMonths)
		if err != nil {
			return storageError(err, "Failed to load monthly revenue")
		}
		revenue = points
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to build dashboard", "error", err)
		return nil, err
	}

	return &dto.DashboardDTO{
		Stats:   dto.ToStatsDTO(stats),
		Revenue: dto.ToRevenuePointDTOs(revenue),
	}, nil
}

func (uc *GetDashboardUseCase) loadStats(ctx context.Context) (*order.Stats, error) {
	if uc.statsCache != nil {
		cached, err := uc.statsCache.Get(ctx)
		if err != nil {
			uc.logger.Warnw("dashboard stats cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := uc.orderRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if uc.statsCache != nil {
		if err := uc.statsCache.Set(ctx, stats); err != nil {
			uc.logger.Warnw("dashboard stats cache write failed", "error", err)
		}
	}
	return stats, nil
}
