package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"slotswapper/internal/db"
	apperr "slotswapper/internal/errors"
	"slotswapper/internal/repository"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	byEmail map[string]*db.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*db.User)}
}

func (f *fakeUserRepo) Create(name, email, password string) (*db.User, error) {
	if _, taken := f.byEmail[email]; taken {
		return nil, repository.ErrEmailTaken
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	user := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}
	f.byEmail[email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	return f.byEmail[email], nil
}

func TestRegister_IssuesToken(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret)

	user, token, err := svc.Register("Alice", "Alice@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != user.ID.String() {
		t.Errorf("user_id claim = %v, want %s", claims["user_id"], user.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret)

	tests := []struct {
		name                  string
		userName, email, pass string
		kind                  apperr.Kind
	}{
		{"missing name", "", "a@example.com", "hunter22", apperr.KindInvalidOperation},
		{"missing email", "Alice", "", "hunter22", apperr.KindInvalidOperation},
		{"missing password", "Alice", "a@example.com", "", apperr.KindInvalidOperation},
		{"short password", "Alice", "a@example.com", "abc", apperr.KindInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(tt.userName, tt.email, tt.pass)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret)
	if _, _, err := svc.Register("Alice", "a@example.com", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := svc.Register("Other Alice", "a@example.com", "different")
	wantKind(t, err, apperr.KindConflict)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	if _, _, err := svc.Register("Alice", "a@example.com", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login("a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Name != "Alice" || token == "" {
		t.Errorf("login returned user %q, token %q", user.Name, token)
	}

	// Unknown email and wrong password fail identically.
	_, _, err = svc.Login("nobody@example.com", "hunter22")
	wantKind(t, err, apperr.KindUnauthorized)
	unknownMsg := err.Error()

	_, _, err = svc.Login("a@example.com", "wrong")
	wantKind(t, err, apperr.KindUnauthorized)
	if err.Error() != unknownMsg {
		t.Errorf("login failures leak which part was wrong: %q vs %q", err.Error(), unknownMsg)
	}
}
