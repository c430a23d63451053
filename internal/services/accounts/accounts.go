package accounts

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"urlshortener/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	maxUsernameLen = 150
)

// Тексты ошибок полей, как их отдает DRF
const (
	MsgUsernameTaken   = "A user with that username already exists."
	MsgEmailTaken      = "user with this email already exists."
	MsgFieldRequired   = "This field may not be blank."
	MsgUsernameTooLong = "Ensure this field has no more than 150 characters."
	MsgEmailInvalid    = "Enter a valid email address."
)

const (
	fieldUsername = "username"
	fieldEmail    = "email"
	fieldPassword = "password"
)

//go:generate mockgen -source=accounts.go -destination=../../mocks/mock_user_storage.go -package=mocks
type UserStorage interface {
	UserCreate(ctx context.Context, user models.User) (models.User, error)
	UserGetByID(ctx context.Context, id int64) (models.User, error)
	UserGetByUsername(ctx context.Context, username string) (models.User, error)
	UserGetByEmail(ctx context.Context, email string) (models.User, error)
}

// Accounts - регистрация, вход и выдача JWT пар.
type Accounts struct {
	storage    UserStorage
	secretKey  []byte
	accessExp  time.Duration
	refreshExp time.Duration
	bcryptCost int
}

type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
}

func NewAccounts(storage UserStorage, secretKey string, accessExp, refreshExp time.Duration) (*Accounts, error) {
	if storage == nil {
		return nil, errors.New("user storage cannot be nil")
	}

	key, err := base64.StdEncoding.DecodeString(secretKey)
	if err != nil || len(key) < 32 {
		return nil, fmt.Errorf("invalid JWT secret key: must be at least 32 bytes when decoded")
	}

	if accessExp <= 0 || refreshExp <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	return &Accounts{
		storage:    storage,
		secretKey:  key,
		accessExp:  accessExp,
		refreshExp: refreshExp,
		bcryptCost: bcrypt.DefaultCost,
	}, nil
}

// Register создает пользователя. Ошибки полей возвращаются как
// *models.ValidationError.
func (a *Accounts) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	v := models.NewValidationError()
	switch {
	case username == "":
		v.Add(fieldUsername, MsgFieldRequired)
	case utf8.RuneCountInString(username) > maxUsernameLen:
		v.Add(fieldUsername, MsgUsernameTooLong)
	}
	if email == "" {
		v.Add(fieldEmail, MsgFieldRequired)
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		v.Add(fieldEmail, MsgEmailInvalid)
	}
	if password == "" {
		v.Add(fieldPassword, MsgFieldRequired)
	}
	if err := v.OrNil(); err != nil {
		return models.User{}, err
	}

	if err := a.checkUnique(ctx, username, email); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := a.storage.UserCreate(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// гонка между проверкой и вставкой
			conflict := models.NewValidationError()
			conflict.Add(fieldUsername, MsgUsernameTaken)
			return models.User{}, conflict
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (a *Accounts) checkUnique(ctx context.Context, username, email string) error {
	v := models.NewValidationError()

	if _, err := a.storage.UserGetByUsername(ctx, username); err == nil {
		v.Add(fieldUsername, MsgUsernameTaken)
	} else if !errors.Is(err, models.ErrUnfound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := a.storage.UserGetByEmail(ctx, email); err == nil {
		v.Add(fieldEmail, MsgEmailTaken)
	} else if !errors.Is(err, models.ErrUnfound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return v.OrNil()
}

// Login проверяет пароль и выдает пару access/refresh.
func (a *Accounts) Login(ctx context.Context, username, password string) (models.User, models.TokenPair, error) {
	user, err := a.storage.UserGetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUnfound) {
			return models.User{}, models.TokenPair{}, models.ErrInvalidCreds
		}
		return models.User{}, models.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, models.TokenPair{}, models.ErrInvalidCreds
	}

	pair, err := a.issuePair(user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh выдает новый access по refresh токену.
func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	if _, err := a.storage.UserGetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, models.ErrUnfound) {
			return "", models.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	return a.jwtGenerate(claims.UserID, TokenTypeAccess, a.accessExp)
}

// Authenticate валидирует access токен и возвращает его владельца.
func (a *Accounts) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	claims, err := a.parse(accessToken, TokenTypeAccess)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.storage.UserGetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUnfound) {
			return models.User{}, models.ErrInvalidToken
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (a *Accounts) issuePair(userID int64) (models.TokenPair, error) {
	access, err := a.jwtGenerate(userID, TokenTypeAccess, a.accessExp)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := a.jwtGenerate(userID, TokenTypeRefresh, a.refreshExp)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (a *Accounts) jwtGenerate(userID int64, tokenType string, exp time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    userID,
		TokenType: tokenType,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
}

// parse валидирует подпись, срок и тип токена.
func (a *Accounts) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return a.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}

	if claims.TokenType != wantType || claims.UserID <= 0 {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}
