package accounts

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("test-secret-key-32-bytes-long!!!"))

func newTestAccounts(t *testing.T, storage UserStorage) *Accounts {
	t.Helper()

	a, err := NewAccounts(storage, testSecret, 5*time.Minute, time.Hour)
	require.NoError(t, err)
	a.bcryptCost = bcrypt.MinCost
	return a
}

func hashed(t *testing.T, password string) string {
	t.Helper()

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockUserStorage(ctrl)

	tests := []struct {
		name    string
		storage UserStorage
		secret  string
		access  time.Duration
		wantErr bool
	}{
		{name: "Корректные параметры", storage: storage, secret: testSecret, access: time.Minute},
		{name: "Нет хранилища", storage: nil, secret: testSecret, access: time.Minute, wantErr: true},
		{name: "Короткий ключ", storage: storage, secret: base64.StdEncoding.EncodeToString([]byte("short")), access: time.Minute, wantErr: true},
		{name: "Ключ не base64", storage: storage, secret: "%%%", access: time.Minute, wantErr: true},
		{name: "Нулевой срок жизни", storage: storage, secret: testSecret, access: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAccounts(tt.storage, tt.secret, tt.access, time.Hour)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, a)
		})
	}
}

func TestAccounts_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		email      string
		password   string
		mockSetup  func(m *mocks.MockUserStorage)
		wantFields map[string]string
		wantErr    bool
	}{
		{
			name:     "Успешная регистрация",
			username: "alice",
			email:    "alice@example.com",
			password: "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(models.User{}, models.ErrUnfound)
				m.EXPECT().UserGetByEmail(gomock.Any(), "alice@example.com").Return(models.User{}, models.ErrUnfound)
				m.EXPECT().
					UserCreate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
						assert.NotEqual(t, "secret1", u.PasswordHash, "пароль хранится только хэшем")
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
						assert.False(t, u.CreatedAt.IsZero(), "CreatedAt не должно быть нулевым")
						u.ID = 1
						return u, nil
					})
			},
		},
		{
			name:      "Пустые поля",
			mockSetup: func(m *mocks.MockUserStorage) {},
			wantFields: map[string]string{
				"username": MsgFieldRequired,
				"email":    MsgFieldRequired,
				"password": MsgFieldRequired,
			},
			wantErr: true,
		},
		{
			name:      "Некорректный email",
			username:  "alice",
			email:     "not-an-email",
			password:  "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {},
			wantFields: map[string]string{
				"email": MsgEmailInvalid,
			},
			wantErr: true,
		},
		{
			name:     "Имя и email заняты",
			username: "alice",
			email:    "alice@example.com",
			password: "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(models.User{ID: 1}, nil)
				m.EXPECT().UserGetByEmail(gomock.Any(), "alice@example.com").Return(models.User{ID: 1}, nil)
			},
			wantFields: map[string]string{
				"username": MsgUsernameTaken,
				"email":    MsgEmailTaken,
			},
			wantErr: true,
		},
		{
			name:     "Конфликт при вставке",
			username: "alice",
			email:    "alice@example.com",
			password: "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(models.User{}, models.ErrUnfound)
				m.EXPECT().UserGetByEmail(gomock.Any(), "alice@example.com").Return(models.User{}, models.ErrUnfound)
				m.EXPECT().UserCreate(gomock.Any(), gomock.Any()).Return(models.User{}, models.ErrConflict)
			},
			wantFields: map[string]string{
				"username": MsgUsernameTaken,
			},
			wantErr: true,
		},
		{
			name:     "Ошибка хранилища",
			username: "alice",
			email:    "alice@example.com",
			password: "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(models.User{}, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			storage := mocks.NewMockUserStorage(ctrl)
			tt.mockSetup(storage)

			a := newTestAccounts(t, storage)
			user, err := a.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantFields != nil {
					var ve *models.ValidationError
					require.ErrorAs(t, err, &ve)
					assert.Equal(t, tt.wantFields, ve.Fields)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), user.ID)
			assert.Equal(t, tt.username, user.Username)
		})
	}
}

func TestAccounts_Login(t *testing.T) {
	stored := models.User{ID: 7, Username: "alice", PasswordHash: hashed(t, "secret1")}

	tests := []struct {
		name      string
		password  string
		mockSetup func(m *mocks.MockUserStorage)
		wantErr   error
	}{
		{
			name:     "Верный пароль",
			password: "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(stored, nil)
			},
		},
		{
			name:     "Неверный пароль",
			password: "wrong",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(stored, nil)
			},
			wantErr: models.ErrInvalidCreds,
		},
		{
			name:     "Нет пользователя",
			password: "secret1",
			mockSetup: func(m *mocks.MockUserStorage) {
				m.EXPECT().UserGetByUsername(gomock.Any(), "alice").Return(models.User{}, models.ErrUnfound)
			},
			wantErr: models.ErrInvalidCreds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			storage := mocks.NewMockUserStorage(ctrl)
			tt.mockSetup(storage)

			a := newTestAccounts(t, storage)
			user, pair, err := a.Login(context.Background(), "alice", tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pair.Access)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, user.ID)
			assert.NotEmpty(t, pair.Access)
			assert.NotEmpty(t, pair.Refresh)
			assert.NotEqual(t, pair.Access, pair.Refresh)
		})
	}
}

func TestAccounts_TokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockUserStorage(ctrl)
	a := newTestAccounts(t, storage)

	pair, err := a.issuePair(7)
	require.NoError(t, err)

	storage.EXPECT().UserGetByID(gomock.Any(), int64(7)).Return(models.User{ID: 7, Username: "alice"}, nil).Times(3)

	t.Run("Access токен аутентифицирует", func(t *testing.T) {
		user, err := a.Authenticate(context.Background(), pair.Access)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("Refresh токен не годится как access", func(t *testing.T) {
		_, err := a.Authenticate(context.Background(), pair.Refresh)
		require.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("Access токен не годится как refresh", func(t *testing.T) {
		_, err := a.Refresh(context.Background(), pair.Access)
		require.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("Refresh выдает новый access", func(t *testing.T) {
		access, err := a.Refresh(context.Background(), pair.Refresh)
		require.NoError(t, err)

		user, err := a.Authenticate(context.Background(), access)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
	})
}

func TestAccounts_Authenticate_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockUserStorage(ctrl)
	a := newTestAccounts(t, storage)

	expired, err := a.jwtGenerate(7, TokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	foreignKey := []byte("another-secret-key-32-bytes-long")
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           7,
		TokenType:        TokenTypeAccess,
	}).SignedString(foreignKey)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Пустой токен", token: ""},
		{name: "Мусор", token: "not.a.jwt"},
		{name: "Истекший токен", token: expired},
		{name: "Чужая подпись", token: foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.token)
			require.ErrorIs(t, err, models.ErrInvalidToken)
		})
	}

	t.Run("Пользователь удален", func(t *testing.T) {
		pair, err := a.issuePair(8)
		require.NoError(t, err)
		storage.EXPECT().UserGetByID(gomock.Any(), int64(8)).Return(models.User{}, models.ErrUnfound)

		_, err = a.Authenticate(context.Background(), pair.Access)
		require.ErrorIs(t, err, models.ErrInvalidToken)
	})
}
