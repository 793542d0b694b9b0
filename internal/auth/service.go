package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senolsoyleyici/poemsite/pkg"

	log "github.com/sirupsen/logrus"
)

// unknownUserHash is a valid bcrypt hash that matches no real password;
// login attempts for unknown usernames are checked against it so they
// burn the same bcrypt time as a wrong-password attempt
const unknownUserHash = "$2a$14$gQDY7P8qGduPi.OKoPKzM.N/MTyZpP.q2tmbprdHH.1jyw7fK3KfW"

type adminRepo interface {
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, username string) (*Admin, error)
	Add(ctx context.Context, admin *Admin) error
}

// BootstrapCredentials are the credentials the one-time setup call
// stores; they come from the environment, never from the request
type BootstrapCredentials struct {
	Username string
	Password string
}

type Service struct {
	repo      adminRepo
	codec     *TokenCodec
	bootstrap BootstrapCredentials
}

func NewService(repo adminRepo, codec *TokenCodec, bootstrap BootstrapCredentials) *Service {
	return &Service{
		repo:      repo,
		codec:     codec,
		bootstrap: bootstrap,
	}
}

// Setup creates the administrator record; every call after the first
// successful one fails with ErrAdminExists and changes nothing
func (s *Service) Setup(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return ErrAdminExists
	}

	if s.bootstrap.Username == "" || s.bootstrap.Password == "" {
		return errors.New("bootstrap admin credentials not set")
	}

	passwordHash, err := pkg.HashPassword(s.bootstrap.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.Add(ctx, &Admin{
		Username:     s.bootstrap.Username,
		PasswordHash: passwordHash,
	}); err != nil {
		// two setup calls racing: the unique constraint wins
		if pkg.IsUniqueViolationError(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("add admin: %w", err)
	}

	log.Debugf("admin [%s] created", s.bootstrap.Username)
	return nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.repo.Get(ctx, username)
	if errors.Is(err, ErrAdminNotFound) {
		pkg.CheckPasswordHash(password, unknownUserHash)
		log.Tracef("[username] failed login attempt for user: %s", username)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("get admin: %w", err)
	}

	if !pkg.CheckPasswordHash(password, admin.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(admin.Username, time.Now())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

func (s *Service) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	return s.codec.Verify(token)
}
