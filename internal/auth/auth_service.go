package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/user"
	"github.com/teamerhq/teamer/pkg/token"
	"github.com/teamerhq/teamer/pkg/utils"
)

type Service struct {
	users  user.UserRepository
	secret string
	ttl    time.Duration
}

func NewService(users user.UserRepository, secret string, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

// Register creates an account with the default role and signs a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err, "hash password")
	}
	u := &user.User{
		Email:        user.NormalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: hash,
		Role:         user.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("userId", u.ID.String()).Msg("user registered")
	return s.issue(u)
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return s.issue(u)
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	signed, err := token.GenerateJWT(u.ID, string(u.Role), s.secret, s.ttl)
	if err != nil {
		return nil, apperrors.Internal(err, "sign access token")
	}
	return &AuthResponse{Token: signed, User: u}, nil
}
