// Package session выдаёт вкладке браузера подписанный идентификатор сессии консоли.
// Это не аутентификация: идентификатор нужен только чтобы хранить состояние страниц.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	cookieName   = "console_session"
	cookieMaxAge = 7 * 24 * 60 * 60 // неделя
)

type ctxKey struct{}

type Manager struct {
	SecretKey string
}

func New(secret string) *Manager {
	return &Manager{SecretKey: secret}
}

// Создать подпись
func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, []byte(m.SecretKey))
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// Выдать куки вида console_session=id:signature
func (m *Manager) issueCookie(w http.ResponseWriter) string {
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    m.SignCookieValue(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cookieMaxAge,
	})
	return id
}

// GetOrSetID возвращает идентификатор из куки или выдаёт новый
func (m *Manager) GetOrSetID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := m.ValidateID(r); ok {
		return id
	}
	return m.issueCookie(w)
}

// ValidateID проверяет наличие и подпись куки
func (m *Manager) ValidateID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	parts := strings.SplitN(cookie.Value, ":", 2)
	if len(parts) != 2 || !hmac.Equal([]byte(m.sign(parts[0])), []byte(parts[1])) {
		return "", false
	}

	return parts[0], true
}

// SignCookieValue значение куки для id (используется и в тестах)
func (m *Manager) SignCookieValue(id string) string {
	return fmt.Sprintf("%s:%s", id, m.sign(id))
}

// Middleware кладёт идентификатор сессии в контекст запроса.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.GetOrSetID(w, r)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID возвращает контекст с идентификатором сессии.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext достаёт идентификатор сессии.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
