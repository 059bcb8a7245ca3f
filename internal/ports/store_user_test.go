package ports

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/app"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func noopSentryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return next
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func makeHandler(t *testing.T, storeUser app.StoreUser) http.HandlerFunc {
	t.Helper()
	return MakeStoreUserHandler(storeUser, testAPIKey, testLogger(), noopSentryMiddleware)
}

func doRequest(t *testing.T, handler http.HandlerFunc, body string, setKey func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/store-user", strings.NewReader(body))
	req.RemoteAddr = "12.12.123.123:51234"
	if setKey != nil {
		setKey(req)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func withAPIKey(key string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("x-api-key", key)
	}
}

func TestMakeStoreUserHandler(t *testing.T) {
	t.Parallel()

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()

		storeUserCalled := false
		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			storeUserCalled = true
			return app.StoreUserResult{}, nil
		})

		w := doRequest(t, handler, `{"email":"a@x.com"}`, nil)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.JSONEq(t, `{"success":false,"error":"Invalid or missing API key"}`, w.Body.String())
		require.False(t, storeUserCalled)
	})

	t.Run("wrong api key", func(t *testing.T) {
		t.Parallel()

		storeUserCalled := false
		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			storeUserCalled = true
			return app.StoreUserResult{}, nil
		})

		w := doRequest(t, handler, `{"email":"a@x.com"}`, withAPIKey("wrong-key"))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.JSONEq(t, `{"success":false,"error":"Invalid or missing API key"}`, w.Body.String())
		require.False(t, storeUserCalled)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()

		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			require.Equal(t, "", input.Email)
			return app.StoreUserResult{}, domain.ErrEmailRequired
		})

		w := doRequest(t, handler, `{"name":"A"}`, withAPIKey(testAPIKey))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"success":false,"error":"Email is required"}`, w.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		storeUserCalled := false
		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			storeUserCalled = true
			return app.StoreUserResult{}, nil
		})

		w := doRequest(t, handler, `{"email":`, withAPIKey(testAPIKey))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"success":false,"error":"Invalid request body"}`, w.Body.String())
		require.False(t, storeUserCalled)
	})

	t.Run("user created", func(t *testing.T) {
		t.Parallel()

		createdAt := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			require.Equal(t, "a@x.com", input.Email)
			require.NotNil(t, input.UserID)
			require.Equal(t, "u1", *input.UserID)
			require.NotNil(t, input.Name)
			require.Equal(t, "A", *input.Name)
			require.Nil(t, input.Timezone)

			return app.StoreUserResult{
				User: domain.User{
					ID:        "u1",
					Email:     "a@x.com",
					Name:      "A",
					CreatedAt: createdAt,
					LastLogin: createdAt,
				},
				Created: true,
			}, nil
		})

		w := doRequest(t, handler, `{"email":"a@x.com","user_id":"u1","name":"A"}`, withAPIKey(testAPIKey))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			User    struct {
				ID       string `json:"id"`
				Email    string `json:"email"`
				Name     string `json:"name"`
				Picture  string `json:"picture"`
				Timezone string `json:"timezone"`
			} `json:"user"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		require.True(t, response.Success)
		require.Equal(t, "User created successfully", response.Message)
		require.Equal(t, "u1", response.User.ID)
		require.Equal(t, "a@x.com", response.User.Email)
		require.Equal(t, "A", response.User.Name)
		require.Equal(t, "", response.User.Picture)
	})

	t.Run("user updated", func(t *testing.T) {
		t.Parallel()

		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			return app.StoreUserResult{
				User:    domain.User{ID: "u1", Email: "a@x.com", Name: "New"},
				Created: false,
			}, nil
		})

		w := doRequest(t, handler, `{"email":"a@x.com","name":"New"}`, withAPIKey(testAPIKey))

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		require.True(t, response.Success)
		require.Equal(t, "User updated successfully", response.Message)
	})

	t.Run("datastore error", func(t *testing.T) {
		t.Parallel()

		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			return app.StoreUserResult{}, assert.AnError
		})

		w := doRequest(t, handler, `{"email":"a@x.com"}`, withAPIKey(testAPIKey))

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var response struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		require.False(t, response.Success)
		require.Equal(t, "Database error", response.Error)
		require.Equal(t, assert.AnError.Error(), response.Details)
	})

	t.Run("panic in handler", func(t *testing.T) {
		t.Parallel()

		handler := makeHandler(t, func(ctx context.Context, input app.StoreUserInput) (app.StoreUserResult, error) {
			panic("something broke")
		})

		w := doRequest(t, handler, `{"email":"a@x.com"}`, withAPIKey(testAPIKey))

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var response struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		require.False(t, response.Success)
		require.Equal(t, "Internal server error", response.Error)
		require.Equal(t, "something broke", response.Details)
	})
}
