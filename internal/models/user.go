package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string    `json:"id"`         // UUID пользователя
	Name         string    `json:"name"`       // отображаемое имя
	Email        string    `json:"email"`      // уникальный email (сравнение с учетом регистра)
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, никогда не сериализуется
	CreatedAt    time.Time `json:"created_at"` // время регистрации
}

// PublicCopy возвращает копию пользователя без хеша пароля
// Используется перед помещением principal в request context
func (u *User) PublicCopy() *User {
	cp := *u
	cp.PasswordHash = ""
	return &cp
}
