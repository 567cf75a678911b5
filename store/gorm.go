package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/models"
)

// GormStore persists records in Postgres through GORM.
type GormStore struct {
	DB  *gorm.DB
	now func() time.Time
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s := NewGormStore(db)
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *GormStore) AutoMigrate() error {
	if err := s.DB.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.TrickAttempt{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func (s *GormStore) CreateChallenge(ctx context.Context, in models.ChallengeInput) (models.Challenge, error) {
	now := s.now()
	c := models.Challenge{
		ID:             uuid.NewString(),
		CreatorID:      in.CreatorID,
		Trick:          in.Trick,
		TrickSlug:      in.TrickSlug,
		Status:         models.StatusOpen,
		Difficulty:     in.Difficulty,
		BuyIn:          in.BuyIn,
		VideoURL:       in.VideoURL,
		VideoThumbnail: in.VideoThumbnail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}
	return c, nil
}

func (s *GormStore) GetChallenge(ctx context.Context, id string) (models.Challenge, error) {
	var c models.Challenge
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return models.Challenge{}, translate(err, ErrChallengeNotFound)
	}
	return c, nil
}

func (s *GormStore) ListChallenges(ctx context.Context, filter ChallengeFilter) ([]models.Challenge, error) {
	q := s.DB.WithContext(ctx).Model(&models.Challenge{})
	if filter.UserID != "" {
		q = q.Where("creator_id = ? OR opponent_id = ?", filter.UserID, filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TrickSlug != "" {
		q = q.Where("trick_slug = ?", filter.TrickSlug)
	}

	challenges := []models.Challenge{}
	if err := q.Order("created_at asc").Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

func (s *GormStore) UpdateChallenge(ctx context.Context, id string, patch models.ChallengePatch) (models.Challenge, error) {
	cols := patch.Columns()
	cols["updated_at"] = s.now()

	res := s.DB.WithContext(ctx).Model(&models.Challenge{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return models.Challenge{}, fmt.Errorf("update challenge %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Challenge{}, ErrChallengeNotFound
	}
	return s.GetChallenge(ctx, id)
}

// WithChallenge locks the row with SELECT ... FOR UPDATE for the duration of
// a transaction; fn's writes commit with it.
func (s *GormStore) WithChallenge(ctx context.Context, id string, fn func(tx Tx, current models.Challenge) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Challenge
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", id).Error; err != nil {
			return translate(err, ErrChallengeNotFound)
		}
		return fn(&GormStore{DB: tx, now: s.now}, current)
	})
}

func (s *GormStore) ListAttempts(ctx context.Context, challengeID string) ([]models.TrickAttempt, error) {
	attempts := []models.TrickAttempt{}
	if err := s.DB.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("timestamp asc").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

func (s *GormStore) CreateAttempt(ctx context.Context, in models.AttemptInput) (models.TrickAttempt, error) {
	a := models.TrickAttempt{
		ID:          uuid.NewString(),
		ChallengeID: in.ChallengeID,
		UserID:      in.UserID,
		VideoURL:    in.VideoURL,
		Landed:      in.Landed,
		Timestamp:   s.now(),
	}
	if err := s.DB.WithContext(ctx).Create(&a).Error; err != nil {
		return models.TrickAttempt{}, fmt.Errorf("create attempt: %w", err)
	}
	return a, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.DB.WithContext(ctx).Order("username asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return models.User{}, translate(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *GormStore) EnsureUser(ctx context.Context, u models.User) (models.User, bool, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&u)
	if res.Error != nil {
		return models.User{}, false, fmt.Errorf("ensure user %s: %w", u.ID, res.Error)
	}
	if res.RowsAffected == 1 {
		return u, true, nil
	}
	// Nothing inserted and no row under this id: the username index fired.
	existing, err := s.GetUser(ctx, u.ID)
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, false, ErrUsernameTaken
	}
	return existing, false, err
}

func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.CodeUnknown, "database error", err)
}
