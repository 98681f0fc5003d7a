package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// ValidationError reports which field of a sign-up or login request failed
// validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// Service implements registration, login and refresh-session rotation.
type Service struct {
	Store  Store
	Tokens Tokens
}

// TokenPair is the result of any operation that issues credentials.
type TokenPair struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates an account and signs the user in.
func (s *Service) Register(ctx context.Context, email, username, password string) (TokenPair, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if !isValidEmail(email) {
		return TokenPair{}, &ValidationError{Field: "email", Reason: "invalid"}
	}
	if !isValidUsername(username) {
		return TokenPair{}, &ValidationError{Field: "username", Reason: "must be 3-32 word characters"}
	}
	if len(password) < 8 {
		return TokenPair{}, &ValidationError{Field: "password", Reason: "min length 8"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return TokenPair{}, err
	}

	u, err := s.Store.CreateUser(ctx, CreateUserParams{Email: email, Username: username, PasswordHash: string(hash)})
	if err != nil {
		return TokenPair{}, err
	}
	return s.issueTokens(ctx, u)
}

// Login checks credentials against either email or username.
func (s *Service) Login(ctx context.Context, login, password string) (TokenPair, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return TokenPair{}, &ValidationError{Field: "login", Reason: "required"}
	}
	if password == "" {
		return TokenPair{}, &ValidationError{Field: "password", Reason: "required"}
	}

	row, err := s.Store.FindUserByLogin(ctx, login)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, row.User)
}

// Refresh rotates a refresh session: the presented token is revoked and a
// new pair is issued. A revoked or expired session is rejected.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (TokenPair, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return TokenPair{}, &ValidationError{Field: "refresh_token", Reason: "required"}
	}

	sess, err := s.Store.GetRefreshSessionByHash(ctx, HashRefreshToken(rawRefresh))
	if err != nil {
		return TokenPair{}, ErrInvalidRefresh
	}
	now := time.Now().UTC()
	if sess.RevokedAt != nil || now.After(sess.ExpiresAt) {
		return TokenPair{}, ErrInvalidRefresh
	}

	u, err := s.Store.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return TokenPair{}, err
	}

	access, exp, err := s.Tokens.NewAccessToken(sess.UserID, now)
	if err != nil {
		return TokenPair{}, err
	}
	newRaw, newHash, err := NewRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	newID := uuid.New()
	if err := s.Store.ReplaceRefreshSession(ctx, sess.ID, newID, now); err != nil {
		return TokenPair{}, err
	}
	if err := s.Store.CreateRefreshSession(ctx, CreateRefreshSessionParams{
		SessionID: newID,
		UserID:    sess.UserID,
		TokenHash: newHash,
		ExpiresAt: now.Add(s.Tokens.RefreshTokenTTL),
		Now:       now,
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		User:         u,
		AccessToken:  access,
		RefreshToken: newRaw,
		ExpiresIn:    int64(time.Until(exp).Seconds()),
	}, nil
}

// Logout revokes the presented refresh session. Unknown tokens succeed
// silently so logout is idempotent.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return &ValidationError{Field: "refresh_token", Reason: "required"}
	}
	sess, err := s.Store.GetRefreshSessionByHash(ctx, HashRefreshToken(rawRefresh))
	if err == nil {
		_ = s.Store.RevokeRefreshSession(ctx, sess.ID, time.Now().UTC())
	}
	return nil
}

// Me resolves the account behind an access-token subject.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.Store.GetUserByID(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, u User) (TokenPair, error) {
	now := time.Now().UTC()
	access, exp, err := s.Tokens.NewAccessToken(u.ID, now)
	if err != nil {
		return TokenPair{}, err
	}
	refreshRaw, refreshHash, err := NewRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Store.CreateRefreshSession(ctx, CreateRefreshSessionParams{
		SessionID: uuid.New(),
		UserID:    u.ID,
		TokenHash: refreshHash,
		ExpiresAt: now.Add(s.Tokens.RefreshTokenTTL),
		Now:       now,
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		User:         u,
		AccessToken:  access,
		RefreshToken: refreshRaw,
		ExpiresIn:    int64(time.Until(exp).Seconds()),
	}, nil
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

func isValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	return emailRe.MatchString(s)
}
