package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"parley-chat/config"
	"parley-chat/internal/domain/user"
	"parley-chat/internal/repository"
	parley_errors "parley-chat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type RegisterInput struct {
	RealmID     int64
	Email       string
	Password    string
	DisplayName string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

type UserInfo struct {
	ID          int64  `json:"id"`
	RealmID     int64  `json:"realm_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type AccessClaims struct {
	UserID  string `json:"sub"`
	RealmID string `json:"rlm"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := validateRegister(in); err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.userRepo.GetRealmByID(ctx, in.RealmID); err != nil {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	newUser := &user.User{
		RealmID:      in.RealmID,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		DisplayName:  in.DisplayName,
		Role:         user.RoleMember,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}

	return s.issueFor(*newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResponse{}, parley_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, parley_errors.ErrNotFound) {
			return AuthResponse{}, parley_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, parley_errors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, parley_errors.ErrUnauthorized
	}

	return s.issueFor(u)
}

func (s *AuthService) issueFor(u user.User) (AuthResponse, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:  strconv.FormatInt(u.ID, 10),
		RealmID: strconv.FormatInt(u.RealmID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		User:        toUserInfo(u),
	}, nil
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, parley_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, parley_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, parley_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, parley_errors.ErrUnauthorized
	}

	return *claims, nil
}

// ResolveCaller turns parsed token claims into the caller's user record.
// Deactivated users are rejected even when their token is still valid.
func (s *AuthService) ResolveCaller(ctx context.Context, claims AccessClaims) (user.User, error) {
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return user.User{}, parley_errors.ErrUnauthorized
	}
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, parley_errors.ErrUnauthorized
	}
	if !u.IsActive {
		return user.User{}, parley_errors.ErrUnauthorized
	}
	return u, nil
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return parley_errors.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return parley_errors.ErrInvalidInput
	}
	if in.DisplayName == "" {
		return parley_errors.ErrInvalidInput
	}
	return nil
}

func toUserInfo(u user.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		RealmID:     u.RealmID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, parley_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, parley_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, parley_errors.ErrForbidden):
		return 403
	case errors.Is(err, parley_errors.ErrNotFound):
		return 404
	case errors.Is(err, parley_errors.ErrAlreadyExists), errors.Is(err, parley_errors.ErrConflict):
		return 409
	case errors.Is(err, parley_errors.ErrRateLimited):
		return 429
	case errors.Is(err, parley_errors.ErrServiceUnavailable):
		return 503
	default:
		return 500
	}
}

type ctxKey string

var callerKey ctxKey = "caller"

// WithCallerContext stores the resolved caller identity on the context.
func WithCallerContext(ctx context.Context, caller user.User) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the caller identity the auth middleware resolved.
func CallerFromContext(ctx context.Context) (user.User, bool) {
	value := ctx.Value(callerKey)
	if value == nil {
		return user.User{}, false
	}
	caller, ok := value.(user.User)
	return caller, ok
}
