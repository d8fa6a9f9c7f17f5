package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lrigschat/lrigschat/sources/session"
)

func sessionTestHandler(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	mgr := session.NewManager()
	mw := SessionMiddleware("test-secret", mgr)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := StoreFrom(r.Context())
		if store == nil {
			t.Fatal("no store in request context")
		}
		store.Create()
		w.WriteHeader(http.StatusOK)
	}))
	return handler, mgr
}

func TestSessionCookieIssuedAndHonored(t *testing.T) {
	handler, mgr := sessionTestHandler(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "lrigschat_session" {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if mgr.Len() != 1 {
		t.Fatalf("expected 1 session store, got %d", mgr.Len())
	}

	// Replaying the cookie lands in the same store: the handler created
	// one conversation per request on top of the seeded default.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if mgr.Len() != 1 {
		t.Errorf("cookie replay created a new session, %d stores", mgr.Len())
	}
}

func TestInvalidCookieGetsFreshSession(t *testing.T) {
	handler, mgr := sessionTestHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "lrigschat_session", Value: "not-a-jwt"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if len(rr.Result().Cookies()) != 1 {
		t.Error("expected a replacement session cookie")
	}
	if mgr.Len() != 1 {
		t.Errorf("expected 1 session store, got %d", mgr.Len())
	}
}

func TestCookieSignedWithOtherSecretRejected(t *testing.T) {
	mgrA := session.NewManager()
	handlerA := SessionMiddleware("secret-a", mgrA)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handlerA.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	cookie := rr.Result().Cookies()[0]

	mgrB := session.NewManager()
	var sidB string
	handlerB := SessionMiddleware("secret-b", mgrB)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sidB = SessionIDFrom(r.Context())
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rrB := httptest.NewRecorder()
	handlerB.ServeHTTP(rrB, req)

	if sidB == "" {
		t.Fatal("expected a session id")
	}
	if len(rrB.Result().Cookies()) != 1 {
		t.Error("expected a replacement cookie for the foreign-signed session")
	}
}
