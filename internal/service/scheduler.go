package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DailyInsightGenerator produces and stores the daily insights of one user.
type DailyInsightGenerator interface {
	GenerateDailyInsights(ctx context.Context, username string) (int, error)
}

type dailyInsightsFunc func(ctx context.Context, username string) (int, error)

func (f dailyInsightsFunc) GenerateDailyInsights(ctx context.Context, username string) (int, error) {
	return f(ctx, username)
}

// DailyInsightsFor adapts the orchestrator to the scheduler.
func DailyInsightsFor(o *OrchestratorService) DailyInsightGenerator {
	return dailyInsightsFunc(func(ctx context.Context, username string) (int, error) {
		insights, err := o.GenerateDailyInsights(ctx, username)
		return len(insights), err
	})
}

// cronLogger routes cron's own messages, including recovered panics and
// skipped runs, to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

// SchedulerService runs daily insight generation for every user on a cron spec.
type SchedulerService struct {
	cron      *cron.Cron
	job       cron.Job
	users     UserDirectory
	generator DailyInsightGenerator
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *zap.Logger
}

func NewSchedulerService(users UserDirectory, generator DailyInsightGenerator, logger *zap.Logger) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{logger: logger.Sugar()}
	// A tick that fires while the previous run is still going is skipped.
	chain := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))

	s := &SchedulerService{
		cron:      cron.New(),
		users:     users,
		generator: generator,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
	s.job = chain.Then(cron.FuncJob(func() { s.RunOnce(s.ctx) }))
	return s
}

// Start registers the daily job under spec and starts the cron loop.
func (s *SchedulerService) Start(spec string) error {
	if _, err := s.cron.AddJob(spec, s.job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.logger.Info("Daily insight scheduler started", zap.String("spec", spec))
	return nil
}

// RunOnce generates insights for every user in turn.
func (s *SchedulerService) RunOnce(ctx context.Context) {
	usernames, err := s.users.ListUsernames(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return
	}

	total := 0
	for _, username := range usernames {
		if ctx.Err() != nil {
			s.logger.Warn("Daily insight run cancelled")
			return
		}
		n, err := s.generateFor(ctx, username)
		if err != nil {
			s.logger.Error("Daily insight generation failed", zap.String("username", username), zap.Error(err))
			continue
		}
		total += n
	}

	s.logger.Info("Daily insight run finished", zap.Int("users", len(usernames)), zap.Int("insights", total))
}

func (s *SchedulerService) generateFor(ctx context.Context, username string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("daily insight generation panicked: %v", r)
		}
	}()
	return s.generator.GenerateDailyInsights(ctx, username)
}

// Stop cancels any running job and waits for it to return.
func (s *SchedulerService) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Daily insight scheduler stopped")
}
