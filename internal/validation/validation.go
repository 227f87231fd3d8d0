package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// EmailPattern определяет допустимый формат email
// Упрощенная проверка: local@domain.tld, без пробелов
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxNameLen максимальная длина имени пользователя
	MaxNameLen = 128
	// MaxTitleLen максимальная длина названия книги
	MaxTitleLen = 256
	// MaxAuthorLen максимальная длина имени автора
	MaxAuthorLen = 256
)

// ValidateEmail проверяет, что email непустой и соответствует формату
// Сравнение email при поиске выполняется с учетом регистра, как сохранено
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email has invalid format")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateName проверяет отображаемое имя пользователя
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}

// ValidateBookID проверяет, что идентификатор книги является корректным UUID
// Проверка формата не зависит от существования книги
func ValidateBookID(id string) error {
	if id == "" {
		return fmt.Errorf("book id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("book id is not a valid identifier")
	}

	return nil
}

// ValidateBookFields проверяет обязательные поля книги при создании
func ValidateBookFields(title, author string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}

	if len(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}

	if author == "" {
		return fmt.Errorf("author is required")
	}

	if len(author) > MaxAuthorLen {
		return fmt.Errorf("author must not exceed %d characters", MaxAuthorLen)
	}

	return nil
}
