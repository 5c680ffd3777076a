package service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// Session is a signed token and how long the browser should keep it.
type Session struct {
	Token     string
	ExpiresAt time.Time
	// Persistent sessions outlive the browser; others are dropped when it closes.
	Persistent bool
}

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      []byte
	isProduction   bool
	sessionExpiry  time.Duration
	rememberExpiry time.Duration
	now            func() time.Time
}

func NewAuthService(
	userRepository repository.UserRepository,
	jwtSecret string,
	isProduction bool,
	sessionExpiry time.Duration,
	rememberExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      []byte(jwtSecret),
		isProduction:   isProduction,
		sessionExpiry:  sessionExpiry,
		rememberExpiry: rememberExpiry,
		now:            time.Now,
	}
}

// Authenticate returns the active user matching the credentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.userRepository.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// keep response time close to the found-user path
			_ = ComparePassword(password, dummyHash)
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	err = ComparePassword(password, user.PasswordHash)
	if err != nil || !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates, stamps last_login and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool) (*model.User, *Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	err = s.userRepository.UpdateLastLogin(ctx, user.ID, s.now())
	if err != nil {
		slog.WarnContext(ctx, "failed to record last login", "error", err, "user_id", user.ID)
	}

	session, err := s.CreateSession(user, rememberMe)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// CreateSession signs a session token. Remembered sessions last rememberExpiry
// in a persistent cookie; the rest live sessionExpiry in a browser-session cookie.
func (s *AuthService) CreateSession(user *model.User, rememberMe bool) (*Session, error) {
	now := s.now()
	expiry := s.sessionExpiry
	if rememberMe {
		expiry = s.rememberExpiry
	}
	expiresAt := now.Add(expiry)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.Wrap(err, "sign session token")
	}

	return &Session{Token: token, ExpiresAt: expiresAt, Persistent: rememberMe}, nil
}

// VerifySession resolves a session token to its active user.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.Wrap(model.ErrUnauthorized, err.Error())
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid session subject")
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, errors.Wrap(model.ErrUnauthorized, "session user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.Wrap(model.ErrUnauthorized, "user is inactive")
	}

	return user, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *Session) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	if session.Persistent {
		cookie.Expires = session.ExpiresAt
		cookie.MaxAge = int(session.ExpiresAt.Sub(s.now()).Seconds())
	}
	http.SetCookie(w, cookie)
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// dummyHash is compared against when the username is unknown.
var dummyHash, _ = HashPassword("casetrack-timing-placeholder")

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashedBytes), nil
}

func ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
