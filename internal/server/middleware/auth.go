package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/internal/server/storage"
	"github.com/iudanet/bookkeeper/internal/server/token"
)

// principalKey тип ключа контекста для resolved principal
type principalKey struct{}

// PrincipalFromContext извлекает аутентифицированного пользователя из контекста
// Возвращает (nil, false) если запрос не прошел через AuthMiddleware:
// downstream-код не может случайно разыменовать отсутствующего principal
func PrincipalFromContext(ctx context.Context) (*models.User, bool) {
	principal, ok := ctx.Value(principalKey{}).(*models.User)
	return principal, ok && principal != nil
}

// WithPrincipal помещает пользователя в контекст (используется в тестах handlers)
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// AuthMiddleware создает middleware для проверки bearer токена
// Цепочка на каждый запрос: заголовок присутствует -> подпись и срок
// действия валидны -> пользователь существует в хранилище -> principal
// (без хеша пароля) помещается в контекст запроса
func AuthMiddleware(logger *slog.Logger, tokens *token.Manager, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				writeAuthError(w, "authentication required")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("Invalid Authorization header format")
				writeAuthError(w, "authentication required")
				return
			}

			// Валидируем токен
			// Причина отказа (подпись или срок действия) клиенту не раскрывается
			userID, err := tokens.Verify(parts[1])
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				writeAuthError(w, "invalid token")
				return
			}

			// Загружаем пользователя из хранилища на каждый запрос
			// Удаленный пользователь неотличим от невалидного токена,
			// что дает немедленный отзыв токена через удаление записи
			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logger.Warn("Token principal not found", "user_id", userID)
				writeAuthError(w, "invalid token")
				return
			}

			// Помещаем principal без хеша пароля в контекст
			ctx := WithPrincipal(r.Context(), user.PublicCopy())

			logger.Debug("User authenticated", "user_id", user.ID)

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError отправляет 401 в стандартном формате ошибок API
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
