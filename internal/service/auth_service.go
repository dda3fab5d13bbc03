package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
	"github.com/noah-isme/creche-api/pkg/validation"
)

const defaultProfileName = "Usuário"

type identityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// SessionStore keeps open sessions until they expire or are deleted.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session, ttl time.Duration) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	Now        func() time.Time
}

// AuthService signs staff in and out and resolves sessions from tokens.
type AuthService struct {
	identities identityRepository
	profiles   profileRepository
	sessions   SessionStore
	validator  *validation.Validator
	logger     *zap.Logger
	config     AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(identities identityRepository, profiles profileRepository, sessions SessionStore, validate *validation.Validator, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.Expiration <= 0 {
		config.Expiration = 12 * time.Hour
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &AuthService{identities: identities, profiles: profiles, sessions: sessions, validator: validate, logger: logger, config: config}
}

// Login checks credentials, resolves the staff profile and opens a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		appErr := appErrors.WithDetails(appErrors.ErrValidation, s.validator.Translate(err))
		appErr.Err = err
		return nil, appErr
	}

	identity, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch identity")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	user := s.resolveProfile(ctx, identity)

	issuedAt := s.config.Now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      *user,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.config.Expiration),
	}
	if err := s.sessions.Save(ctx, session, s.config.Expiration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open session")
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.LoginResponse{AccessToken: token, ExpiresAt: session.ExpiresAt, User: *user}, nil
}

// resolveProfile loads the profile for an identity, creating the default one on first sign-in.
// Failures fall back to the default profile so sign-in still succeeds.
func (s *AuthService) resolveProfile(ctx context.Context, identity *models.Identity) *models.User {
	user, err := s.profiles.FindByID(ctx, identity.ID)
	if err == nil {
		return user
	}

	fallback := defaultProfile(identity, s.config.Now())
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to load user profile", zap.String("user_id", identity.ID), zap.Error(err))
		return fallback
	}
	if err := s.profiles.Create(ctx, fallback); err != nil {
		s.logger.Warn("failed to create user profile", zap.String("user_id", identity.ID), zap.Error(err))
	}
	return fallback
}

func defaultProfile(identity *models.Identity, now time.Time) *models.User {
	name, _, _ := strings.Cut(identity.Email, "@")
	if name == "" {
		name = defaultProfileName
	}
	return &models.User{
		ID:        identity.ID,
		Email:     identity.Email,
		Name:      name,
		Role:      models.RoleColaborador,
		CreatedAt: now.UTC(),
	}
}

// Authenticate validates a token and loads its live session.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrSessionNotFound) {
			return nil, appErrors.ErrSessionNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Logout closes the session.
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return appErrors.ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close session")
	}
	s.logger.Info("user signed out", zap.String("user_id", session.User.ID))
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.config.Now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) signToken(session *models.Session) (string, error) {
	claims := &models.JWTClaims{
		SessionID: session.ID,
		UserID:    session.User.ID,
		Role:      session.User.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   session.User.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			NotBefore: jwt.NewNumericDate(session.IssuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
