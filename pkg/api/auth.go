package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Name     string `json:"name"`     // отображаемое имя пользователя
	Email    string `json:"email"`    // уникальный email
	Password string `json:"password"` // пароль в открытом виде (только в запросе)
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// UserResponse представляет публичные поля пользователя
// Хеш пароля никогда не попадает в ответ
type UserResponse struct {
	ID        string    `json:"id"`         // UUID пользователя
	Name      string    `json:"name"`       // отображаемое имя
	Email     string    `json:"email"`      // email
	CreatedAt time.Time `json:"created_at"` // время регистрации
}

// LoginResponse представляет ответ на успешный вход
type LoginResponse struct {
	ID    string `json:"id"`    // UUID пользователя
	Name  string `json:"name"`  // отображаемое имя
	Email string `json:"email"` // email
	Token string `json:"token"` // JWT bearer token
}

// ErrorResponse представляет ответ с ошибкой
// Все ошибки API возвращаются в этом формате
type ErrorResponse struct {
	Message string `json:"message"` // описание ошибки
}

// MessageResponse представляет ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
