package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
)

type AuthUsecase interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	// VerifyAccessToken checks signature and expiry only; it does not hit
	// the store.
	VerifyAccessToken(token string) (*models.Principal, error)
}

type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

type authUsecase struct {
	users         repo.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	bcryptCost    int
	now           func() time.Time
}

func NewAuthUsecase(conf *config.Config, users repo.UserRepository) AuthUsecase {
	return &authUsecase{
		users:         users,
		accessSecret:  []byte(conf.Auth.JWTSecret),
		refreshSecret: []byte(conf.Auth.JWTRefreshSecret),
		accessTTL:     conf.Auth.AccessTTL,
		refreshTTL:    conf.Auth.RefreshTTL,
		bcryptCost:    conf.Auth.BcryptCost,
		now:           time.Now,
	}
}

func (uc *authUsecase) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("email already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := uc.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, models.NewConflictError("username already taken")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user, err := uc.newUser(req.Username, email, req.Password, role)
	if err != nil {
		return nil, err
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewConflictError("user already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return uc.issue(user)
}

func (uc *authUsecase) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return uc.issue(user)
}

func (uc *authUsecase) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := uc.parse(refreshToken, uc.refreshSecret)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, models.ErrUnauthorized
	}

	resp, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	resp.User = nil
	return resp, nil
}

func (uc *authUsecase) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (uc *authUsecase) VerifyAccessToken(token string) (*models.Principal, error) {
	claims, err := uc.parse(token, uc.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, models.ErrInvalidToken
	}
	return &models.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (uc *authUsecase) newUser(username, email, password string, role models.Role) (*models.User, error) {
	hash, err := hashPassword(password, uc.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (uc *authUsecase) issue(user *models.User) (*models.AuthResponse, error) {
	access, err := uc.sign(user, uc.accessSecret, uc.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := uc.sign(user, uc.refreshSecret, uc.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &models.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(uc.accessTTL.Seconds()),
	}, nil
}

func (uc *authUsecase) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := uc.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (uc *authUsecase) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
