package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ai-insights/internal/models"
	"ai-insights/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errOffline = errors.New("model offline")

// scriptedCompleter answers with the first reply whose key is a substring of the prompt.
// A prompt containing panicOn makes it panic, the way a misbehaving provider SDK would.
type scriptedCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	panicOn string
	prompts []string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if c.panicOn != "" && strings.Contains(prompt, c.panicOn) {
		panic("provider SDK blew up")
	}
	for key, reply := range c.replies {
		if strings.Contains(prompt, key) {
			return reply, nil
		}
	}
	return "", errOffline
}

func (c *scriptedCompleter) Close() error { return nil }

func (c *scriptedCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func newGateway(replies map[string]string) (*LLMService, *scriptedCompleter) {
	completer := &scriptedCompleter{replies: replies}
	return NewLLMService(completer, 0, zap.NewNop()), completer
}

func offlineGateway() *LLMService {
	gw, _ := newGateway(nil)
	return gw
}

type fakePreferenceStore struct {
	mu    sync.Mutex
	prefs []*models.Preference
	fail  bool
	lists int
}

func (f *fakePreferenceStore) ListByUsername(_ context.Context, username string) ([]*models.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []*models.Preference
	for _, p := range f.prefs {
		if p.Username == username {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePreferenceStore) Get(_ context.Context, username, prefType, key string) (*models.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prefs {
		if p.Username == username && p.PreferenceType == prefType && p.PreferenceKey == key {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePreferenceStore) Upsert(_ context.Context, pref *models.Preference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("store down")
	}
	for _, p := range f.prefs {
		if p.Username == pref.Username && p.PreferenceType == pref.PreferenceType && p.PreferenceKey == pref.PreferenceKey {
			p.PreferenceValue = pref.PreferenceValue
			pref.ID = p.ID
			return nil
		}
	}
	pref.ID = uuid.New()
	stored := *pref
	f.prefs = append(f.prefs, &stored)
	return nil
}

type fakeInteractionStore struct {
	mu           sync.Mutex
	interactions []*models.Interaction
}

func (f *fakeInteractionStore) Create(_ context.Context, interaction *models.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactions = append(f.interactions, interaction)
	return nil
}

func (f *fakeInteractionStore) ListRecent(_ context.Context, username string, limit int) ([]*models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Interaction
	for i := len(f.interactions) - 1; i >= 0 && len(out) < limit; i-- {
		if f.interactions[i].Username == username {
			out = append(out, f.interactions[i])
		}
	}
	return out, nil
}

type fakeInsightStore struct {
	mu       sync.Mutex
	insights []*models.Insight
}

func (f *fakeInsightStore) Create(_ context.Context, insight *models.Insight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insights = append(f.insights, insight)
	return nil
}

func (f *fakeInsightStore) ListByUsername(_ context.Context, username string, limit int, unreadOnly bool) ([]*models.Insight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Insight
	for _, i := range f.insights {
		if i.Username == username && (!unreadOnly || !i.IsRead) && len(out) < limit {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeInsightStore) MarkRead(_ context.Context, id uuid.UUID, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.insights {
		if i.ID == id && i.Username == username {
			i.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAlertConfigStore struct {
	mu      sync.Mutex
	configs []*models.AlertConfiguration
	listErr error
}

func (f *fakeAlertConfigStore) Upsert(_ context.Context, cfg *models.AlertConfiguration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	f.configs = append(f.configs, cfg)
	return nil
}

func (f *fakeAlertConfigStore) List(_ context.Context, username string, activeOnly bool) ([]*models.AlertConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.AlertConfiguration
	for _, c := range f.configs {
		if c.Username == username && (!activeOnly || c.IsActive) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAlertConfigStore) Update(_ context.Context, id uuid.UUID, username string, patch models.AlertConfigPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.ID == id && c.Username == username {
			if patch.ThresholdValue != nil {
				c.ThresholdValue = *patch.ThresholdValue
			}
			if patch.IsActive != nil {
				c.IsActive = *patch.IsActive
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeUsers struct {
	accounts map[string]string
}

func (f fakeUsers) AccountID(_ context.Context, username string) (string, error) {
	if id, ok := f.accounts[username]; ok {
		return id, nil
	}
	return "", repository.ErrNotFound
}

func (f fakeUsers) ListUsernames(context.Context) ([]string, error) {
	var out []string
	for name := range f.accounts {
		out = append(out, name)
	}
	return out, nil
}

type fakeLedger struct {
	txs        []models.Transaction
	balance    float64
	balanceErr error
}

func (f *fakeLedger) ListByAccount(_ context.Context, _ string, limit, _ int) ([]models.Transaction, error) {
	if len(f.txs) > limit {
		return f.txs[:limit], nil
	}
	return f.txs, nil
}

func (f *fakeLedger) Balance(context.Context, string) (float64, error) {
	return f.balance, f.balanceErr
}

func (f *fakeLedger) SpendingByCategory(context.Context, string, time.Time, time.Time) ([]models.CategorySpending, error) {
	return nil, nil
}

func (f *fakeLedger) SpendingTrends(context.Context, string, time.Time, time.Time) ([]models.DailySpending, error) {
	return nil, nil
}

func (f *fakeLedger) MonthlyComparison(context.Context, string) ([]models.MonthlySpending, error) {
	return nil, nil
}

type fakeRunner struct {
	mu   sync.Mutex
	rows []models.Row
	err  error
	sqls []string
}

func (f *fakeRunner) Run(_ context.Context, sql string) ([]models.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sqls = append(f.sqls, sql)
	return f.rows, f.err
}

func transactionsWithAmounts(amounts ...float64) []models.Transaction {
	txs := make([]models.Transaction, len(amounts))
	for i, a := range amounts {
		txs[i] = models.Transaction{ID: int64(i + 1), Amount: a}
	}
	return txs
}
