package scheduler

import (
	"context"
	"time"

	"Finledger/config"
	"Finledger/internal/domain/investment"
	"Finledger/internal/domain/ledger"
	"Finledger/internal/domain/loan"
	"Finledger/internal/logger"
)

// Scheduler dispara os trabalhos periódicos: materialização de recorrências,
// avaliação de investimentos e lembretes de empréstimo. Cada trabalho roda em
// seu próprio ticker e falha isolada não afeta os demais.
type Scheduler struct {
	cfg        *config.Config
	ledger     *ledger.Service
	investment *investment.Service
	loan       *loan.Service

	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg *config.Config, ledgerSvc *ledger.Service, investmentSvc *investment.Service, loanSvc *loan.Service) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		ledger:     ledgerSvc,
		investment: investmentSvc,
		loan:       loanSvc,
	}
}

func (s *Scheduler) Start() {
	if !s.cfg.Scheduler.Enabled {
		logger.Info().Msg("Agendador desativado por configuração")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.run(ctx)
	}()

	logger.Info().
		Dur("recurring_interval", s.cfg.Scheduler.RecurringInterval).
		Dur("valuation_interval", s.cfg.Scheduler.ValuationInterval).
		Dur("reminder_interval", s.cfg.Scheduler.ReminderInterval).
		Msg("Agendador iniciado")
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	logger.Info().Msg("Agendador parado")
}

func (s *Scheduler) run(ctx context.Context) {
	recurringTicker := time.NewTicker(s.cfg.Scheduler.RecurringInterval)
	valuationTicker := time.NewTicker(s.cfg.Scheduler.ValuationInterval)
	reminderTicker := time.NewTicker(s.cfg.Scheduler.ReminderInterval)
	defer recurringTicker.Stop()
	defer valuationTicker.Stop()
	defer reminderTicker.Stop()

	// Recorrências vencidas são processadas já na partida.
	s.processRecurring(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-recurringTicker.C:
			s.processRecurring(ctx)
		case <-valuationTicker.C:
			s.simulateInvestments(ctx)
		case <-reminderTicker.C:
			s.sendLoanReminders(ctx)
		}
	}
}

func (s *Scheduler) processRecurring(ctx context.Context) {
	processed, err := s.ledger.ProcessRecurringTransactions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Falha ao processar transações recorrentes")
		return
	}

	if processed > 0 {
		logger.Info().Int("processed", processed).Msg("Transações recorrentes processadas")
	}
}

func (s *Scheduler) simulateInvestments(ctx context.Context) {
	processed, err := s.investment.SimulateGrowth(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Falha na avaliação de investimentos")
		return
	}

	logger.Info().Int("processed", processed).Msg("Investimentos avaliados")
}

func (s *Scheduler) sendLoanReminders(ctx context.Context) {
	sent, err := s.loan.SendPaymentReminders(ctx, s.cfg.Scheduler.LoanReminderDaysAhead)
	if err != nil {
		logger.Error().Err(err).Msg("Falha ao enviar lembretes de empréstimo")
		return
	}

	if sent > 0 {
		logger.Info().Int("sent", sent).Msg("Lembretes de empréstimo enviados")
	}
}
