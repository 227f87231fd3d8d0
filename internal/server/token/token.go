// Package token implements issuing and verification of bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL срок действия токена по умолчанию (30 дней)
const DefaultTTL = 30 * 24 * time.Hour

// ErrInvalidToken возвращается при любой ошибке проверки токена
// Причина (подпись, срок действия, формат) намеренно не раскрывается
var ErrInvalidToken = errors.New("invalid token")

// Claims представляет JWT claims для нашего приложения
type Claims struct {
	UserID string `json:"id"` // UUID пользователя
	jwt.RegisteredClaims
}

// Manager выпускает и проверяет JWT токены
// Секрет подписи — неизменяемое состояние процесса, задается при старте
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создает новый token manager
// Возвращает ошибку если секрет подписи пуст: процесс не должен
// запускаться без ключа подписи
func NewManager(secret []byte, ttl time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret must not be empty")
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue создает подписанный токен для пользователя
// Claims: {id, iat, exp}, exp = iat + ttl
func (m *Manager) Issue(userID string) (string, error) {
	now := m.now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "bookkeeper",
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify проверяет подпись и срок действия токена и возвращает ID пользователя
// Любая ошибка проверки возвращается как ErrInvalidToken
func (m *Manager) Verify(tokenString string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))

	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

// WithNow заменяет источник времени (используется в тестах для проверки expiry)
func (m *Manager) WithNow(now func() time.Time) *Manager {
	m.now = now
	return m
}
