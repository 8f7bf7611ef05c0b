package fx

import (
	"context"

	"Finledger/config"
	"Finledger/internal/domain/investment"
	"Finledger/internal/domain/ledger"
	"Finledger/internal/domain/loan"
	"Finledger/internal/scheduler"

	"go.uber.org/fx"
)

// SchedulerModule amarra os trabalhos periódicos ao ciclo de vida da aplicação
var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		newScheduler,
	),
	fx.Invoke(
		startScheduler,
	),
)

func newScheduler(
	cfg *config.Config,
	ledgerSvc *ledger.Service,
	investmentSvc *investment.Service,
	loanSvc *loan.Service,
) *scheduler.Scheduler {
	return scheduler.New(cfg, ledgerSvc, investmentSvc, loanSvc)
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
