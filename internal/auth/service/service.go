// Package service implements account registration, login, and the contact
// lookups other modules use to reach a party.
package service

import (
	"context"
	"strings"
	"time"

	"wex_backend/internal/auth/repository"
	"wex_backend/internal/auth/transport"
	"wex_backend/internal/notification"
	"wex_backend/platform/apperr"
	"wex_backend/platform/config"
	"wex_backend/platform/logger"
	"wex_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenType = "access"

// Service provides account and token business logic
type Service struct {
	repo *repository.Repository
	cfg  config.JWTConfig
	log  *logger.Logger
}

// New creates a new auth service
func New(repo *repository.Repository, cfg config.JWTConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Register creates a buyer or supplier account and signs the caller in.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, error) {
	normalized := phone.NormalizeE164(req.Phone)
	if normalized == "" {
		return nil, apperr.Validation("phone number is not valid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password")
	}

	now := time.Now().UTC()
	user := &repository.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        normalized,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("account registered", "user_id", user.ID, "role", user.Role)
	return s.issueToken(user)
}

// Login exchanges credentials for an access token.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	return s.issueToken(user)
}

// Me returns the account behind an access token.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ResolveBuyerByPhone maps an inbound SMS number onto a buyer account.
// Non-buyer accounts are treated as unknown senders.
func (s *Service) ResolveBuyerByPhone(ctx context.Context, phoneE164 string) (uuid.UUID, error) {
	user, err := s.repo.GetByPhone(ctx, phoneE164)
	if err != nil {
		return uuid.Nil, err
	}
	if user.Role != "buyer" {
		return uuid.Nil, apperr.NotFound("no buyer account for this number")
	}
	return user.ID, nil
}

// GetContact returns a user's delivery endpoints for notifications.
func (s *Service) GetContact(ctx context.Context, userID uuid.UUID) (notification.Contact, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return notification.Contact{}, err
	}
	return notification.Contact{Email: user.Email, Phone: user.Phone}, nil
}

func (s *Service) issueToken(user *repository.User) (*transport.AuthResponse, error) {
	ttl := s.cfg.GetAccessTokenTTL()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"type": accessTokenType,
		"role": user.Role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return nil, apperr.Internal("failed to sign token")
	}

	return &transport.AuthResponse{
		AccessToken: signed,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func toUserResponse(u *repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
