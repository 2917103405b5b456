package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/podbrief/podbrief/internal/models"
)

// UserRecord is a seeded or signed-up account.
type UserRecord struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Password  string
	Name      string
	Role      string
	CreatedAt time.Time
}

// TokenRecord maps an opaque bearer token to a user.
type TokenRecord struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	CreatedAt time.Time
}

// EpisodeRecord is an episode moving through the processing pipeline.
// Transcript and summary are stored as JSON blobs once completed.
type EpisodeRecord struct {
	ID                string `gorm:"primaryKey"`
	UserID            string `gorm:"index"`
	Title             string
	PodcastName       string
	Description       string
	Status            string `gorm:"index"`
	Progress          int
	StatusMessage     string
	Error             string
	DurationSeconds   float64
	AudioURL          string
	LanguageCode      string
	TranscriptJSON    string
	CleanedTranscript string
	SummaryJSON       string
	IsPublic          bool
	Slug              string `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SubscriptionRecord is a user's standing link to a podcast feed.
type SubscriptionRecord struct {
	ID            string `gorm:"primaryKey"`
	UserID        string `gorm:"index"`
	PodcastID     string
	PodcastName   string
	FeedURL       string
	ArtworkURL    string
	IsActive      bool
	LastCheckedAt *time.Time
	CreatedAt     time.Time
}

// SubscriptionEpisodeRecord is one tracked feed item.
type SubscriptionEpisodeRecord struct {
	ID              string `gorm:"primaryKey"`
	SubscriptionID  string `gorm:"index"`
	EpisodeGUID     string
	EpisodeTitle    string
	AudioURL        string
	PublishDate     string
	DurationSeconds float64
	EpisodeID       string
	Status          string `gorm:"index"`
	CreatedAt       time.Time
}

// Store wraps the gorm handle for the stub backend.
type Store struct {
	db *gorm.DB
}

// NewStore opens (and migrates) the stub database. Path ":memory:" gives an
// in-memory database, the default for tests.
func NewStore(path string, verbose bool) (*Store, error) {
	logLevel := logger.Error
	if verbose {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open stub database: %w", err)
	}

	if err := db.AutoMigrate(
		&UserRecord{},
		&TokenRecord{},
		&EpisodeRecord{},
		&SubscriptionRecord{},
		&SubscriptionEpisodeRecord{},
	); err != nil {
		return nil, fmt.Errorf("auto migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) CreateUser(ctx context.Context, user *UserRecord) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var user UserRecord
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &user, nil
}

func (s *Store) SaveToken(ctx context.Context, token *TokenRecord) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

func (s *Store) GetUserByToken(ctx context.Context, token string) (*UserRecord, error) {
	var record TokenRecord
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up token: %w", err)
	}

	var user UserRecord
	if err := s.db.WithContext(ctx).Where("id = ?", record.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting token user: %w", err)
	}
	return &user, nil
}

func (s *Store) CreateEpisode(ctx context.Context, episode *EpisodeRecord) error {
	if err := s.db.WithContext(ctx).Create(episode).Error; err != nil {
		return fmt.Errorf("creating episode: %w", err)
	}
	return nil
}

func (s *Store) SaveEpisode(ctx context.Context, episode *EpisodeRecord) error {
	if err := s.db.WithContext(ctx).Save(episode).Error; err != nil {
		return fmt.Errorf("updating episode: %w", err)
	}
	return nil
}

func (s *Store) GetEpisode(ctx context.Context, id string) (*EpisodeRecord, error) {
	var episode EpisodeRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting episode: %w", err)
	}
	return &episode, nil
}

func (s *Store) GetEpisodeBySlug(ctx context.Context, slug string) (*EpisodeRecord, error) {
	var episode EpisodeRecord
	if err := s.db.WithContext(ctx).Where("slug = ? AND is_public = ?", slug, true).First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting episode by slug: %w", err)
	}
	return &episode, nil
}

func (s *Store) ListEpisodes(ctx context.Context, userID, status string, limit, offset int) ([]EpisodeRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&EpisodeRecord{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting episodes: %w", err)
	}

	var episodes []EpisodeRecord
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&episodes).Error; err != nil {
		return nil, 0, fmt.Errorf("listing episodes: %w", err)
	}
	return episodes, total, nil
}

// ListActiveEpisodes returns every episode still in a non-terminal status.
func (s *Store) ListActiveEpisodes(ctx context.Context) ([]EpisodeRecord, error) {
	var episodes []EpisodeRecord
	if err := s.db.WithContext(ctx).
		Where("status NOT IN ?", []string{"completed", "failed"}).
		Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("listing active episodes: %w", err)
	}
	return episodes, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *SubscriptionRecord) (bool, error) {
	var existing SubscriptionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND podcast_id = ?", sub.UserID, sub.PodcastID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("checking existing subscription: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return false, fmt.Errorf("creating subscription: %w", err)
	}
	return true, nil
}

func (s *Store) GetSubscription(ctx context.Context, id, userID string) (*SubscriptionRecord, error) {
	var sub SubscriptionRecord
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting subscription: %w", err)
	}
	return &sub, nil
}

func (s *Store) SaveSubscription(ctx context.Context, sub *SubscriptionRecord) error {
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("updating subscription: %w", err)
	}
	return nil
}

func (s *Store) DeleteSubscription(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("subscription_id = ?", id).Delete(&SubscriptionEpisodeRecord{}).Error; err != nil {
		return fmt.Errorf("deleting subscription episodes: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&SubscriptionRecord{}).Error; err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	return nil
}

func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]SubscriptionRecord, error) {
	var subs []SubscriptionRecord
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Store) CreateSubscriptionEpisode(ctx context.Context, episode *SubscriptionEpisodeRecord) error {
	if err := s.db.WithContext(ctx).Create(episode).Error; err != nil {
		return fmt.Errorf("creating subscription episode: %w", err)
	}
	return nil
}

func (s *Store) ListSubscriptionEpisodes(ctx context.Context, subscriptionID, status string, limit, offset int) ([]SubscriptionEpisodeRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&SubscriptionEpisodeRecord{}).Where("subscription_id = ?", subscriptionID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting subscription episodes: %w", err)
	}

	var episodes []SubscriptionEpisodeRecord
	if err := query.Order("publish_date DESC").Limit(limit).Offset(offset).Find(&episodes).Error; err != nil {
		return nil, 0, fmt.Errorf("listing subscription episodes: %w", err)
	}
	return episodes, total, nil
}

func (s *Store) GetSubscriptionEpisodesByIDs(ctx context.Context, ids []string) ([]SubscriptionEpisodeRecord, error) {
	var episodes []SubscriptionEpisodeRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("getting subscription episodes: %w", err)
	}
	return episodes, nil
}

func (s *Store) UpdateSubscriptionEpisodeStatus(ctx context.Context, ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Model(&SubscriptionEpisodeRecord{}).
		Where("id IN ?", ids).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("updating subscription episode status: %w", err)
	}
	return nil
}

func (s *Store) CountSubscriptionEpisodes(ctx context.Context, subscriptionID string) (total, processed int64, err error) {
	base := s.db.WithContext(ctx).Model(&SubscriptionEpisodeRecord{}).Where("subscription_id = ?", subscriptionID)
	if err = base.Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("counting subscription episodes: %w", err)
	}
	if err = s.db.WithContext(ctx).Model(&SubscriptionEpisodeRecord{}).
		Where("subscription_id = ? AND status = ?", subscriptionID, "completed").
		Count(&processed).Error; err != nil {
		return 0, 0, fmt.Errorf("counting processed episodes: %w", err)
	}
	return total, processed, nil
}

// toEpisodeModel converts a record to the wire Episode DTO.
func (r *EpisodeRecord) toEpisodeModel() (*models.Episode, error) {
	episode := &models.Episode{
		ID:       r.ID,
		Status:   models.ProcessingStatus(r.Status),
		Progress: r.Progress,
		IsPublic: r.IsPublic,
	}
	episode.Title = optString(r.Title)
	episode.PodcastName = optString(r.PodcastName)
	episode.Description = optString(r.Description)
	episode.StatusMessage = optString(r.StatusMessage)
	episode.Error = optString(r.Error)
	episode.AudioURL = optString(r.AudioURL)
	episode.LanguageCode = optString(r.LanguageCode)
	episode.CleanedTranscript = optString(r.CleanedTranscript)
	episode.Slug = optString(r.Slug)
	if r.DurationSeconds > 0 {
		episode.DurationSeconds = &r.DurationSeconds
	}
	createdAt := r.CreatedAt.UTC().Format(time.RFC3339)
	updatedAt := r.UpdatedAt.UTC().Format(time.RFC3339)
	episode.CreatedAt = &createdAt
	episode.UpdatedAt = &updatedAt

	if r.TranscriptJSON != "" {
		if err := json.Unmarshal([]byte(r.TranscriptJSON), &episode.Transcript); err != nil {
			return nil, fmt.Errorf("decoding stored transcript: %w", err)
		}
	}
	if r.SummaryJSON != "" {
		episode.Summary = &models.EpisodeSummary{}
		if err := json.Unmarshal([]byte(r.SummaryJSON), episode.Summary); err != nil {
			return nil, fmt.Errorf("decoding stored summary: %w", err)
		}
	}
	return episode, nil
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
