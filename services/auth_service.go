package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/repository"
)

// SessionClaims is the identity carried by a session token.
type SessionClaims struct {
	UserID      string
	SessionID   string
	IsAnonymous bool
}

// AuthService resolves and mints identities: password accounts, anonymous
// guests, and the profile slice the storefront renders.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, *ServiceError)
	Federated(ctx context.Context, idToken string) (*models.User, string, *ServiceError)
	Guest(ctx context.Context) (*models.User, string, *ServiceError)
	UpdateDisplayName(ctx context.Context, userID, displayName string) *ServiceError
	Identity(ctx context.Context, userID string) (*models.Identity, *ServiceError)
	ParseToken(token string) (*SessionClaims, error)
}

type authServiceImpl struct {
	users    repository.UserRepository
	provider IdentityProvider
	secret   []byte
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, provider IdentityProvider, jwtSecret string, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		users:    users,
		provider: provider,
		secret:   []byte(jwtSecret),
		logger:   logger,
	}
}

// Register creates a password account, sets its display name, and opens
// a session.
func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, *ServiceError) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, "", NewConflictError("Email already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("User lookup failed", zap.Error(err))
		return nil, "", NewOperationFailedError("Failed to register", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", NewOperationFailedError("Failed to hash password", err)
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Email:       req.Email,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, "", NewOperationFailedError("Failed to register", err)
	}

	token, svcErr := s.mintToken(user)
	if svcErr != nil {
		return nil, "", svcErr
	}
	return user, token, nil
}

// Login authenticates a password account and opens a session.
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", NewUnauthorizedError("Invalid credentials")
		}
		s.logger.Error("User lookup failed", zap.Error(err))
		return nil, "", NewOperationFailedError("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", NewUnauthorizedError("Invalid credentials")
	}

	token, svcErr := s.mintToken(user)
	if svcErr != nil {
		return nil, "", svcErr
	}
	return user, token, nil
}

// Federated signs in with an external provider's ID token. A first
// sign-in creates the account from the asserted claims; later ones
// reuse the account matched by email.
func (s *authServiceImpl) Federated(ctx context.Context, idToken string) (*models.User, string, *ServiceError) {
	claims, err := s.provider.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, ErrInvalidIDToken) {
			return nil, "", NewUnauthorizedError("Invalid identity token")
		}
		s.logger.Error("Identity provider verification failed", zap.Error(err))
		return nil, "", NewOperationFailedError("Failed to verify identity", err)
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error("User lookup failed", zap.Error(err))
			return nil, "", NewOperationFailedError("Failed to sign in", err)
		}
		user = &models.User{
			ID:          uuid.New().String(),
			Email:       claims.Email,
			DisplayName: claims.Name,
			PhotoURL:    claims.Picture,
			Provider:    "google",
			ProviderID:  claims.Subject,
		}
		if err := s.users.Insert(ctx, user); err != nil {
			s.logger.Error("Failed to create federated user", zap.Error(err))
			return nil, "", NewOperationFailedError("Failed to sign in", err)
		}
	}

	token, svcErr := s.mintToken(user)
	if svcErr != nil {
		return nil, "", svcErr
	}
	return user, token, nil
}

// Guest creates an anonymous identity and opens a session for it.
func (s *authServiceImpl) Guest(ctx context.Context) (*models.User, string, *ServiceError) {
	user := &models.User{
		ID:          uuid.New().String(),
		IsAnonymous: true,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		s.logger.Error("Failed to create guest user", zap.Error(err))
		return nil, "", NewOperationFailedError("Failed to start guest session", err)
	}

	token, svcErr := s.mintToken(user)
	if svcErr != nil {
		return nil, "", svcErr
	}
	return user, token, nil
}

func (s *authServiceImpl) UpdateDisplayName(ctx context.Context, userID, displayName string) *ServiceError {
	if displayName == "" {
		return NewValidationError("Display name is required")
	}
	if err := s.users.UpdateDisplayName(ctx, userID, displayName); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return NewNotFoundError("User not found")
		}
		s.logger.Error("Failed to update profile", zap.Error(err))
		return NewOperationFailedError("Failed to update profile", err)
	}
	return nil
}

// Identity returns the rendering slice of a user with guest fallbacks
// applied: a "Guest User" display name and a generated avatar.
func (s *authServiceImpl) Identity(ctx context.Context, userID string) (*models.Identity, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, NewNotFoundError("User not found")
		}
		s.logger.Error("User lookup failed", zap.Error(err))
		return nil, NewOperationFailedError("Failed to load identity", err)
	}
	return BuildIdentity(user), nil
}

// BuildIdentity applies the storefront's cosmetic fallbacks.
func BuildIdentity(user *models.User) *models.Identity {
	name := user.DisplayName
	if name == "" {
		if user.IsAnonymous {
			name = "Guest User"
		} else if user.Email != "" {
			name = user.Email
		} else {
			name = "User"
		}
	}

	photo := user.PhotoURL
	if photo == "" {
		photo = fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=10b981&color=000", url.QueryEscape(name))
	}

	return &models.Identity{
		UserID:      user.ID,
		DisplayName: name,
		PhotoURL:    photo,
		IsAnonymous: user.IsAnonymous,
	}
}

// mintToken generates a session JWT with user id, session id, and the
// anonymous flag. Tokens expire in 24 hours.
func (s *authServiceImpl) mintToken(user *models.User) (string, *ServiceError) {
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"session_id": uuid.New().String(),
		"anon":       user.IsAnonymous,
		"exp":        time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", NewOperationFailedError("Failed to generate token", err)
	}
	return signed, nil
}

// ParseToken validates a session token and extracts its claims.
func (s *authServiceImpl) ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["session_id"].(string)
	anon, _ := claims["anon"].(bool)
	if userID == "" || sessionID == "" {
		return nil, errors.New("invalid token claims")
	}

	return &SessionClaims{
		UserID:      userID,
		SessionID:   sessionID,
		IsAnonymous: anon,
	}, nil
}
