package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adesokan/walletcore/db"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/utils"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Register(ctx context.Context, user *models.User, password string) error
}

type authService struct {
	store     db.Store
	jwtSecret string
	tokenTTL  time.Duration
}

func (s *Services) Auth() AuthService {
	return &authService{
		store:     s.store,
		jwtSecret: s.cfg.JWTSecret,
		tokenTTL:  s.cfg.TokenTTL,
	}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, hash, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, "", utils.UnauthorizedErr("invalid email or password")
		}
		return nil, "", utils.ServerErr(fmt.Errorf("lookup user: %w", err))
	}

	if err := utils.VerifyPassword(hash, password); err != nil {
		return nil, "", utils.UnauthorizedErr("invalid email or password")
	}

	token, err := IssueToken(user.ID, a.jwtSecret, a.tokenTTL)
	if err != nil {
		return nil, "", utils.ServerErr(fmt.Errorf("issue token: %w", err))
	}

	return user, token, nil
}

func (a *authService) Register(ctx context.Context, user *models.User, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return utils.BadRequestErr(err.Error())
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if err := a.store.CreateUser(ctx, user, hash); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return utils.DuplicateKeyErr("an account with this email already exists")
		}
		return utils.ServerErr(fmt.Errorf("create user: %w", err))
	}
	return nil
}

func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a bearer token and returns the subject user ID.
func ParseToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
