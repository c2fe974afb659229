package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pawe2l37/todo-api/internal/model"
	"github.com/Pawe2l37/todo-api/internal/repo"
)

var (
	// Одна ошибка на "нет пользователя" и "неверный пароль" - не раскрываем, что именно не так
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	users    repo.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users repo.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return model.User{}, ErrValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	})
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) IssueToken(u model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken проверяет подпись и срок, затем перечитывает пользователя:
// удалённый или деактивированный аккаунт делает токен недействительным
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (model.User, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return model.User{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.User{}, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, ErrInvalidToken
	}
	return u, nil
}
