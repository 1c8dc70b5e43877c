package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type recordingGenerator struct {
	mu       sync.Mutex
	users    []string
	failFor  string
	panicFor string
	block    chan struct{}
	started  chan struct{}
}

func (g *recordingGenerator) GenerateDailyInsights(_ context.Context, username string) (int, error) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.users = append(g.users, username)
	if username == g.failFor {
		return 0, errors.New("generation failed")
	}
	if username == g.panicFor {
		panic("analysis blew up for " + username)
	}
	return 2, nil
}

func TestRunOnceVisitsEveryUser(t *testing.T) {
	users := fakeUsers{accounts: map[string]string{"alice": "1", "bob": "2", "carol": "3"}}
	gen := &recordingGenerator{failFor: "bob"}
	s := NewSchedulerService(users, gen, zap.NewNop())

	s.RunOnce(context.Background())

	sort.Strings(gen.users)
	if len(gen.users) != 3 || gen.users[0] != "alice" || gen.users[2] != "carol" {
		t.Errorf("visited %v, want every user despite a failure", gen.users)
	}
}

func TestRunOnceSurvivesPanickingUser(t *testing.T) {
	users := fakeUsers{accounts: map[string]string{"alice": "1", "bob": "2"}}
	gen := &recordingGenerator{panicFor: "alice"}
	s := NewSchedulerService(users, gen, zap.NewNop())

	s.job.Run()

	sort.Strings(gen.users)
	if len(gen.users) != 2 || gen.users[1] != "bob" {
		t.Errorf("visited %v, want bob visited after alice panicked", gen.users)
	}
}

type panickingUsers struct{ fakeUsers }

func (panickingUsers) ListUsernames(context.Context) ([]string, error) {
	panic("directory blew up")
}

func TestScheduledJobRecoversPanics(t *testing.T) {
	gen := &recordingGenerator{}
	s := NewSchedulerService(panickingUsers{}, gen, zap.NewNop())

	// Must not take the process down.
	s.job.Run()

	if len(gen.users) != 0 {
		t.Errorf("visited %v", gen.users)
	}
}

func TestScheduledJobSkipsOverlappingRuns(t *testing.T) {
	users := fakeUsers{accounts: map[string]string{"alice": "1"}}
	gen := &recordingGenerator{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewSchedulerService(users, gen, zap.NewNop())

	done := make(chan struct{})
	go func() {
		s.job.Run()
		close(done)
	}()
	<-gen.started

	// Returns immediately while the first run is blocked.
	s.job.Run()

	close(gen.block)
	<-done
	if len(gen.users) != 1 {
		t.Errorf("generator ran %d times, want 1", len(gen.users))
	}
}

func TestRunOnceStopsWhenCancelled(t *testing.T) {
	users := fakeUsers{accounts: map[string]string{"alice": "1", "bob": "2"}}
	gen := &recordingGenerator{}
	s := NewSchedulerService(users, gen, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	if len(gen.users) != 0 {
		t.Errorf("visited %v after cancellation", gen.users)
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewSchedulerService(fakeUsers{}, &recordingGenerator{}, zap.NewNop())

	if err := s.Start("every now and then"); err == nil {
		t.Fatal("Start() accepted an invalid spec")
	}
	if err := s.Start("0 6 * * *"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}

func TestDailyInsightsAdapter(t *testing.T) {
	f := newOrchestratorFixture(nil)
	f.ledger.txs = transactionsWithAmounts(50, 25, 100, 0)

	n, err := DailyInsightsFor(f.svc).GenerateDailyInsights(context.Background(), "alice")
	if err != nil || n != 1 {
		t.Errorf("GenerateDailyInsights() = %d, %v; want 1 insight", n, err)
	}
}
