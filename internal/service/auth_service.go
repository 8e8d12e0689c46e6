package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"slotswapper/internal/db"
	apperr "slotswapper/internal/errors"
	"slotswapper/internal/repository"
)

const tokenTTL = 7 * 24 * time.Hour

// AuthService issues credentials. The rest of the system only ever sees the
// verified owner id the middleware extracts from a token.
type AuthService interface {
	Register(name, email, password string) (*db.User, string, error)
	Login(email, password string) (*db.User, string, error)
}

type authService struct {
	repo      repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(repo repository.UserRepository, jwtSecret string) AuthService {
	return &authService{repo: repo, jwtSecret: []byte(jwtSecret)}
}

func (s *authService) Register(name, email, password string) (*db.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.InvalidOperation("name, email and password are required")
	}
	if len(password) < 6 {
		return nil, "", apperr.InvalidOperation("password must be at least 6 characters")
	}

	user, err := s.repo.Create(name, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", apperr.Conflict("email already registered")
		}
		return nil, "", apperr.Internal("could not create user", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", apperr.Internal("could not sign token", err)
	}
	return user, token, nil
}

func (s *authService) Login(email, password string) (*db.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, "", apperr.Internal("could not look up user", err)
	}
	// Same message for unknown email and wrong password.
	if user == nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", apperr.Internal("could not sign token", err)
	}
	return user, token, nil
}

func (s *authService) signToken(user *db.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
