package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-insights/internal/models"
	"ai-insights/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	learningHistoryLimit       = 50
	learningPromptInteractions = 10
	recommendationInteractions = 20
	recommendationInsights     = 10
)

type PreferenceService struct {
	llm          Gateway
	prefs        PreferenceStore
	interactions InteractionStore
	insights     InsightStore
	alertConfigs AlertConfigStore
	logger       *zap.Logger
}

func NewPreferenceService(
	llm Gateway,
	prefs PreferenceStore,
	interactions InteractionStore,
	insights InsightStore,
	alertConfigs AlertConfigStore,
	logger *zap.Logger,
) *PreferenceService {
	return &PreferenceService{
		llm:          llm,
		prefs:        prefs,
		interactions: interactions,
		insights:     insights,
		alertConfigs: alertConfigs,
		logger:       logger,
	}
}

// GetPreferences returns every stored preference; a store failure yields an empty list.
func (s *PreferenceService) GetPreferences(ctx context.Context, username string) []*models.Preference {
	prefs, err := s.prefs.ListByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to get user preferences", zap.String("username", username), zap.Error(err))
		return []*models.Preference{}
	}
	return prefs
}

// UpdatePreferences upserts one record per (type, key). Mapping values are
// split per sub-key; anything else is stored under the default key.
// It reports whether at least one upsert succeeded.
func (s *PreferenceService) UpdatePreferences(ctx context.Context, username string, preferences map[string]interface{}) bool {
	saved := 0
	for prefType, data := range preferences {
		if entries, ok := data.(map[string]interface{}); ok {
			for key, value := range entries {
				if s.save(ctx, username, prefType, key, value) {
					saved++
				}
			}
			continue
		}
		if s.save(ctx, username, prefType, models.DefaultPreferenceKey, data) {
			saved++
		}
	}

	s.logger.Info("Updated preferences", zap.String("username", username), zap.Int("count", saved))
	return saved > 0
}

func (s *PreferenceService) save(ctx context.Context, username, prefType, key string, value interface{}) bool {
	pref := &models.Preference{
		Username:        username,
		PreferenceType:  prefType,
		PreferenceKey:   key,
		PreferenceValue: value,
	}
	if err := s.prefs.Upsert(ctx, pref); err != nil {
		s.logger.Error("Failed to save preference",
			zap.String("username", username),
			zap.String("type", prefType),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// LogInteraction appends one interaction to the user's history.
func (s *PreferenceService) LogInteraction(ctx context.Context, username, interactionType string, insightID *uuid.UUID, data map[string]interface{}) (uuid.UUID, error) {
	interaction := &models.Interaction{
		ID:              uuid.New(),
		Username:        username,
		InteractionType: interactionType,
		InsightID:       insightID,
		InteractionData: data,
		CreatedAt:       time.Now(),
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return uuid.Nil, fmt.Errorf("failed to log interaction: %w", err)
	}
	return interaction.ID, nil
}

// LearnFromInteraction logs the interaction, then adjusts preferences from
// the user's recent history. Learning is best effort.
func (s *PreferenceService) LearnFromInteraction(ctx context.Context, username, interactionType string, insightID *uuid.UUID, data map[string]interface{}) (uuid.UUID, error) {
	id, err := s.LogInteraction(ctx, username, interactionType, insightID, data)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.learn(ctx, username, interactionType, data); err != nil {
		s.logger.Warn("Preference learning skipped", zap.String("username", username), zap.Error(err))
	}
	return id, nil
}

func (s *PreferenceService) learn(ctx context.Context, username, interactionType string, data map[string]interface{}) error {
	history, err := s.interactions.ListRecent(ctx, username, learningHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load interaction history: %w", err)
	}
	if len(history) == 0 {
		return nil
	}
	if len(history) > learningPromptInteractions {
		history = history[:learningPromptInteractions]
	}

	current, _ := json.Marshal(data)
	recent, _ := json.Marshal(history)

	prompt := fmt.Sprintf(`Analyze the following user interactions to learn their preferences:

User: %s
Current interaction: %s - %s

Recent interactions:
%s

Based on this data, suggest:
1. What types of insights this user prefers
2. What time periods they're most interested in
3. What categories they care about most
4. How to improve future recommendations

Respond in JSON format as {"preferences": {"<preference_type>": {"<key>": <value>}}}.`, username, interactionType, current, recent)

	learned, ok := s.llm.GenerateStructured(ctx, prompt).Object("preferences")
	if !ok {
		return nil
	}

	s.applyLearned(ctx, username, learned)
	return nil
}

// applyLearned upserts learned values, merging mapping values key by key
// with learned keys winning.
func (s *PreferenceService) applyLearned(ctx context.Context, username string, learned models.AIPayload) {
	for prefType, data := range learned {
		entries, ok := data.(map[string]interface{})
		if !ok {
			s.save(ctx, username, prefType, models.DefaultPreferenceKey, data)
			continue
		}

		for key, value := range entries {
			existing, err := s.prefs.Get(ctx, username, prefType, key)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("Failed to read preference", zap.String("username", username), zap.Error(err))
			}
			if existing != nil {
				value = mergePreferenceValue(existing.PreferenceValue, value)
			}
			s.save(ctx, username, prefType, key, value)
		}
	}

	s.logger.Info("Applied learned preferences", zap.String("username", username))
}

func mergePreferenceValue(current, learned interface{}) interface{} {
	currentMap, ok := current.(map[string]interface{})
	if !ok {
		return learned
	}
	learnedMap, ok := learned.(map[string]interface{})
	if !ok {
		return learned
	}
	return map[string]interface{}(models.AIPayload(currentMap).Merge(learnedMap))
}

// GetPersonalizedRecommendations asks the AI what the user should look at next.
func (s *PreferenceService) GetPersonalizedRecommendations(ctx context.Context, username string) []interface{} {
	prefs := s.GetPreferences(ctx, username)

	interactions, err := s.interactions.ListRecent(ctx, username, recommendationInteractions)
	if err != nil {
		s.logger.Warn("Failed to load interactions", zap.String("username", username), zap.Error(err))
	}
	insights, err := s.insights.ListByUsername(ctx, username, recommendationInsights, false)
	if err != nil {
		s.logger.Warn("Failed to load insights", zap.String("username", username), zap.Error(err))
	}

	titles := make([]string, 0, len(insights))
	for _, insight := range insights {
		titles = append(titles, insight.Title)
	}
	if len(interactions) > 5 {
		interactions = interactions[:5]
	}
	if len(titles) > 5 {
		titles = titles[:5]
	}

	encodedPrefs, _ := json.Marshal(prefs)
	encodedInteractions, _ := json.Marshal(interactions)
	encodedTitles, _ := json.Marshal(titles)

	prompt := fmt.Sprintf(`Based on the following user data, generate personalized recommendations:

User preferences: %s
Recent interactions: %s
Recent insights: %s

Suggest:
1. What insights to generate next
2. What spending patterns to analyze
3. What alerts to set up
4. What improvements to track

Respond in JSON format as {"recommendations": [...]} with specific, actionable recommendations.`, encodedPrefs, encodedInteractions, encodedTitles)

	result := s.llm.GenerateStructured(ctx, prompt)
	if recs, ok := result["recommendations"].([]interface{}); ok {
		return recs
	}
	return []interface{}{}
}

// SetAlertPreferences stores an alert configuration, filling unset fields
// with the default daily spending alert. A nil cfg stores the default alert.
func (s *PreferenceService) SetAlertPreferences(ctx context.Context, username string, cfg *models.AlertConfiguration) (*models.AlertConfiguration, error) {
	if cfg == nil {
		cfg = &models.AlertConfiguration{ThresholdValue: defaultAlertThreshold}
	}
	cfg.Username = username
	cfg.IsActive = true
	applyAlertDefaults(cfg)
	if err := validateAlertConfig(cfg); err != nil {
		return nil, err
	}

	if err := s.alertConfigs.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to set alert preferences: %w", err)
	}

	s.logger.Info("Set alert preferences", zap.String("username", username), zap.String("alert_type", string(cfg.AlertType)))
	return cfg, nil
}
