package usecase

import (
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/campusorder/internal/config"
	"github.com/polkiloo/campusorder/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	newScheduledOrderUseCase,
)

type scheduledParams struct {
	fx.In

	Scheduled repository.ScheduledOrderRepository
	Config    *config.Config
}

func newScheduledOrderUseCase(p scheduledParams) *ScheduledOrderUseCase {
	lookahead := p.Config.SchedulerLookahead
	if lookahead <= 0 {
		lookahead = 5 * time.Minute
	}
	return NewScheduledOrderUseCase(p.Scheduled, lookahead)
}
