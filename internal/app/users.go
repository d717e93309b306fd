package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AccountService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAccountService(u domain.UserRepository, h PasswordHasher, t TokenIssuer) *AccountService {
	return &AccountService{users: u, hasher: h, tokens: t}
}

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates the user and returns a fresh session token for it.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if ve := validateStruct(in); ve != nil {
		return domain.User{}, "", ve
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return domain.User{}, "", domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, "", err
	}
	u, err := s.users.CreateUser(ctx, domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, tok, nil
}

// Login never says whether the email or the password was wrong.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (domain.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if ve := validateStruct(in); ve != nil {
		return domain.User{}, "", ve
	}

	u, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if !s.hasher.Check(in.Password, u.PasswordHash) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, tok, nil
}

func (s *AccountService) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
