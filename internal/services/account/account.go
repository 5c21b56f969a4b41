// Package account содержит бизнес-логику учётных записей: регистрацию, вход,
// выход с отзывом токена и управление профилем.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/apikit/internal/events"
	"github.com/magabrotheeeer/apikit/internal/lib/jwt"
	"github.com/magabrotheeeer/apikit/internal/lib/password"
	"github.com/magabrotheeeer/apikit/internal/lib/sl"
	"github.com/magabrotheeeer/apikit/internal/models"
	"github.com/magabrotheeeer/apikit/internal/storage/repository"
)

var (
	// ErrNotFound учётная запись не найдена
	ErrNotFound = errors.New("account not found")
	// ErrAlreadyExists имя пользователя или email заняты
	ErrAlreadyExists = errors.New("account already exists")
	// ErrInvalidCredentials неверное имя пользователя или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository хранилище учётных записей.
type Repository interface {
	CreateAccount(ctx context.Context, account models.Account) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdateAccount(ctx context.Context, id, email, passwordHash string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// Cache кеш учётных записей и список отозванных токенов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// Publisher отправляет события об учётных записях.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service сервис учётных записей.
type Service struct {
	log      *slog.Logger
	repo     Repository
	cache    Cache
	tokens   jwt.Maker
	events   Publisher
	cacheTTL time.Duration
	now      func() time.Time
}

// New создаёт Service.
func New(log *slog.Logger, repo Repository, cache Cache, tokens jwt.Maker, events Publisher, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		cache:    cache,
		tokens:   tokens,
		events:   events,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func cacheKey(id string) string {
	return "account:" + id
}

// Register создаёт учётную запись с ролью user и публикует account.registered.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error) {
	const op = "account.Register"

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.repo.CreateAccount(ctx, models.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoError(err))
	}

	s.publish(ctx, events.AccountRegistered, created)
	return created, nil
}

// Login проверяет пароль и выпускает токен с aud = id учётной записи.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "account.Login"

	acc, err := s.repo.GetAccountByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = password.Compare(acc.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.SignWithClaims(acc.ID, map[string]any{
		"username": acc.Username,
		"role":     acc.Role,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Logout отзывает токен до момента его истечения.
func (s *Service) Logout(ctx context.Context, claims map[string]any) error {
	const op = "account.Logout"

	exp, ok := jwt.ExpiresAt(claims)
	jti := jwt.ID(claims)
	if !ok || jti == "" {
		s.log.Warn("token revocation skipped: claims without exp or jti",
			slog.String("op", op), slog.Bool("has_exp", ok), slog.Bool("has_jti", jti != ""))
		return nil
	}
	if err := s.cache.Revoke(ctx, jti, exp.Sub(s.now())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает учётную запись, сначала пытаясь взять её из кеша.
func (s *Service) Get(ctx context.Context, id string) (*models.Account, error) {
	const op = "account.Get"
	log := s.log.With(slog.String("op", op))

	var cached models.Account
	found, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	acc, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoError(err))
	}
	if err = s.cache.Set(ctx, cacheKey(id), acc, s.cacheTTL); err != nil {
		log.Warn("cache write failed", sl.Err(err))
	}
	return acc, nil
}

// Update меняет email и/или пароль; пустые поля запроса не трогаются.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateRequest) (*models.Account, error) {
	const op = "account.Update"

	var hashed string
	if req.Password != "" {
		var err error
		if hashed, err = password.Hash(req.Password); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	acc, err := s.repo.UpdateAccount(ctx, id, req.Email, hashed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoError(err))
	}
	s.invalidate(ctx, op, id)
	return acc, nil
}

// Delete удаляет учётную запись и публикует account.deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "account.Delete"

	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapRepoError(err))
	}
	s.invalidate(ctx, op, id)
	s.publish(ctx, events.AccountDeleted, &models.Account{ID: id})
	return nil
}

func (s *Service) invalidate(ctx context.Context, op, id string) {
	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", slog.String("op", op), sl.Err(err))
	}
}

// publish не прерывает операцию: событие теряется, ошибка пишется в лог.
func (s *Service) publish(ctx context.Context, routingKey string, acc *models.Account) {
	err := s.events.Publish(ctx, routingKey, events.AccountEvent{
		Type:       routingKey,
		AccountID:  acc.ID,
		Username:   acc.Username,
		Email:      acc.Email,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Error("failed to publish event",
			slog.String("routing_key", routingKey),
			slog.String("account_id", acc.ID),
			sl.Err(err))
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrAlreadyExists
	default:
		return err
	}
}
