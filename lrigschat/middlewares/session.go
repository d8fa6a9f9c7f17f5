// lrigschat/middlewares/session.go
package middlewares

import (
	"context"
	"net/http"
	"time"

	"lrigschat/lrigschat/sources/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	storeKey     contextKey = "session_store"
	sessionIDKey contextKey = "session_id"
)

const cookieName = "lrigschat_session"

// SessionMiddleware binds each request to its browser session's
// conversation store. The session id travels in a JWT-signed cookie;
// an absent or invalid cookie gets a fresh anonymous session. This is
// not user authentication, just session scoping.
func SessionMiddleware(secret string, mgr *session.Manager) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionIDFromCookie(r, key)
			if sid == "" {
				sid = uuid.NewString()
				if err := setSessionCookie(w, sid, key); err != nil {
					http.Error(w, "failed to establish session", http.StatusInternalServerError)
					return
				}
			}
			store := mgr.Store(sid)
			ctx := context.WithValue(r.Context(), storeKey, store)
			ctx = context.WithValue(ctx, sessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromCookie(r *http.Request, key []byte) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return ""
	}
	return sid
}

func setSessionCookie(w http.ResponseWriter, sid string, key []byte) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString(key)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// StoreFrom returns the request's session store. It is nil only when
// the session middleware is not mounted.
func StoreFrom(ctx context.Context) *session.Store {
	store, _ := ctx.Value(storeKey).(*session.Store)
	return store
}

// SessionIDFrom returns the request's session id.
func SessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}
