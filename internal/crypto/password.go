// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost стоимость bcrypt хеширования
// Дефолтная стоимость достаточна для server-side хеширования
const BcryptCost = bcrypt.DefaultCost

// HashPassword возвращает bcrypt хеш пароля
// Соль генерируется на каждый вызов и встроена в результат
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword проверяет пароль против сохраненного bcrypt хеша
// Возвращает false (не ошибку) для некорректного или поврежденного хеша
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
