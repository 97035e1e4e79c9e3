package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("path = %q, want /login", r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if creds["username"] != "admin" || creds["password"] != "secret123" {
			t.Errorf("credentials = %v", creds)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok123", "token_type": "bearer", "expires_in": 3600,
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	res, err := c.Login(context.Background(), "admin", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken != "tok123" {
		t.Errorf("access_token = %q", res.AccessToken)
	}
	if res.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d", res.ExpiresIn)
	}
	if c.Token() != "tok123" {
		t.Errorf("cached token = %q, want tok123", c.Token())
	}
}

func TestLoginRetriesOnceOnTransportGlitch(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	secondConnHeader := ""

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()

		if n == 1 {
			// Drop the connection before responding to simulate a lost
			// connection.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("server does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			if err := conn.Close(); err != nil {
				t.Errorf("close hijacked conn: %v", err)
			}
			return
		}

		mu.Lock()
		secondConnHeader = r.Header.Get("Connection")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok456", "token_type": "bearer", "expires_in": 3600,
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	// Plain client so the retry's explicit Connection: close header is
	// observable (the default fresh login client closes every connection).
	c.loginClient = func() *http.Client {
		return &http.Client{Timeout: 5 * time.Second}
	}

	res, err := c.Login(context.Background(), "admin", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if secondConnHeader != "close" {
		t.Errorf("retry Connection header = %q, want close", secondConnHeader)
	}
	if res.AccessToken != "tok456" {
		t.Errorf("access_token = %q", res.AccessToken)
	}
	if c.Token() != "tok456" {
		t.Errorf("cached token = %q, want tok456", c.Token())
	}
}

func TestLoginBadCredentialsDoesNotRetry(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
		if _, err := w.Write([]byte(`{"detail":"Incorrect username or password"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login(context.Background(), "admin", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	var merr *MessageError
	if !errors.As(err, &merr) {
		t.Fatalf("error type = %T, want *MessageError", err)
	}
	if c.Token() != "" {
		t.Errorf("token = %q, want empty after failed login", c.Token())
	}
}

func TestCreateUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/users" {
			t.Errorf("got %s %s, want POST /users", r.Method, r.URL.Path)
		}
		var payload UserCreate
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.FirstName != "Taylor" || payload.LastName != "Brooks" {
			t.Errorf("name = %q %q", payload.FirstName, payload.LastName)
		}
		if payload.Email != "taylor@example.com" {
			t.Errorf("email = %q", payload.Email)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		body := `{"id":7,"first_name":"Taylor","last_name":"Brooks",` +
			`"email":"taylor@example.com","phone":"(555) 123-4567",` +
			`"created_at":"2025-08-10T12:34:56.123456"}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	u, err := c.CreateUser(context.Background(), UserCreate{
		FirstName: "Taylor",
		LastName:  "Brooks",
		Email:     "taylor@example.com",
		Phone:     "(555) 123-4567",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID != 7 {
		t.Errorf("id = %d, want 7", u.ID)
	}
	if u.FullName() != "Taylor Brooks" {
		t.Errorf("full name = %q", u.FullName())
	}
	if u.CreatedAt == nil || u.CreatedAt.IsZero() {
		t.Error("expected created_at to parse")
	}
}

func TestCreateUserDetailError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		if _, err := w.Write([]byte(`{"detail":"Email already exists"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.CreateUser(context.Background(), UserCreate{Email: "dup@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Email already exists" {
		t.Errorf("error = %q, want detail message", err.Error())
	}
}

func TestCreateUserClientErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.CreateUser(context.Background(), UserCreate{})
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if serr.Code != http.StatusForbidden {
		t.Errorf("code = %d, want 403", serr.Code)
	}
}

func TestCreateUserServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.CreateUser(context.Background(), UserCreate{})
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if serr.Code != http.StatusBadGateway {
		t.Errorf("code = %d, want 502", serr.Code)
	}
}

func TestListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("skip") != "10" || r.URL.Query().Get("limit") != "25" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer tok123" {
			t.Errorf("auth = %q, want bearer token", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		body := `[{"id":1,"first_name":"Taylor","last_name":"Brooks",` +
			`"email":"taylor@example.com","phone":"","created_at":"2025-08-10T12:34:56.123456"}]`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok123")
	users, err := c.ListUsers(context.Background(), 10, 25)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if users[0].FullName() != "Taylor Brooks" {
		t.Errorf("name = %q", users[0].FullName())
	}
	want := time.Date(2025, 8, 10, 12, 34, 56, 123456000, time.UTC)
	if users[0].CreatedAt == nil || !users[0].CreatedAt.Equal(want) {
		t.Errorf("created_at = %v, want %v", users[0].CreatedAt, want)
	}
}

func TestListUsersBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		if _, err := w.Write([]byte("Not authenticated")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.ListUsers(context.Background(), 0, 100)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if serr.Code != http.StatusUnauthorized || serr.Body != "Not authenticated" {
		t.Errorf("status error = %+v", serr)
	}
}

func TestTestAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("limit = %q, want 1", r.URL.Query().Get("limit"))
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("expected Authorization header")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte("[]")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.SetCredentials("admin", "secret123")
	if err := c.TestAuth(context.Background()); err != nil {
		t.Fatalf("test auth: %v", err)
	}
}

func TestTestAuthInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	err := c.TestAuth(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid username/password" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestBasicAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// admin:secret123 base64-encoded
		want := "Basic YWRtaW46c2VjcmV0MTIz"
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("auth = %q, want %q", got, want)
		}
		if _, err := w.Write([]byte("[]")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.SetCredentials("admin", "secret123")
	if _, err := c.ListUsers(context.Background(), 0, 1); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestBearerPreferredOverBasic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("auth = %q, want bearer", got)
		}
		if _, err := w.Write([]byte("[]")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok123")
	c.SetCredentials("admin", "secret123")
	if _, err := c.ListUsers(context.Background(), 0, 1); err != nil {
		t.Fatalf("list: %v", err)
	}
}

// TestTokenConcurrentAccess hammers token reads, writes, and authenticated
// requests from separate goroutines; go test -race verifies the client's
// token synchronization.
func TestTokenConcurrentAccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write([]byte(`{"id": 1, "first_name": "A", "last_name": "B", "email": "a@b.com"}`)); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok123")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.SetToken("tok123")
				_ = c.Token()
				c.SetCredentials("admin", "secret123")
				c.ClearCredentials()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := c.CreateUser(context.Background(), UserCreate{FirstName: "A", Email: "a@b.com"}); err != nil {
					t.Errorf("create user: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
