package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/app"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/logging"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/ratelimiting"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/reporting"
)

type storeUserRequest struct {
	Email              string  `json:"email"`
	UserID             *string `json:"user_id"`
	Name               *string `json:"name"`
	Picture            *string `json:"picture"`
	AppVersion         *string `json:"app_version"`
	Timezone           *string `json:"timezone"`
	DocumentInfo       *string `json:"document_info"`
	InstallationSource *string `json:"installation_source"`
	InstallDate        *string `json:"install_date"`
}

type userResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Picture            string    `json:"picture"`
	AppVersion         string    `json:"app_version"`
	Timezone           string    `json:"timezone"`
	DocumentInfo       string    `json:"document_info"`
	InstallationSource string    `json:"installation_source"`
	CreatedAt          time.Time `json:"created_at"`
	LastLogin          time.Time `json:"last_login"`
}

type successResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func userResponseFromDomain(user domain.User) userResponse {
	return userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Picture:            user.Picture,
		AppVersion:         user.AppVersion,
		Timezone:           user.Timezone,
		DocumentInfo:       user.DocumentInfo,
		InstallationSource: user.InstallationSource,
		CreatedAt:          user.CreatedAt,
		LastLogin:          user.LastLogin,
	}
}

func MakeStoreUserHandler(
	storeUser app.StoreUser,
	apiKey string,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(8),
		ratelimiting.BurstSize(480),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)

	onLimitExceeded := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"success":false,"error":"Rate limit exceeded"}`))
	}

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("store_user"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		NewRecoverMiddleware(),
		NewAPIKeyMiddleware(apiKey),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		handleError := func(ctx context.Context, statusCode int, errorMessage, details string) {
			response, err := json.Marshal(errorResponse{
				Success: false,
				Error:   errorMessage,
				Details: details,
			})
			if err != nil {
				reporting.Report(ctx, fmt.Errorf("failed to marshal error response: %w", err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"success":false,"error":"Internal server error"}`))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusCode)
			w.Write(response)
		}

		var request storeUserRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			handleError(ctx, http.StatusBadRequest, "Invalid request body", "")
			return
		}

		ctx = reporting.SetEmailInContext(ctx, request.Email)
		ctx = logging.AddMetaToContext(ctx, slog.String("email", request.Email))

		result, err := storeUser(ctx, app.StoreUserInput{
			Email:              request.Email,
			UserID:             request.UserID,
			Name:               request.Name,
			Picture:            request.Picture,
			AppVersion:         request.AppVersion,
			Timezone:           request.Timezone,
			DocumentInfo:       request.DocumentInfo,
			InstallationSource: request.InstallationSource,
			InstallDate:        request.InstallDate,
		})
		if errors.Is(err, domain.ErrEmailRequired) {
			handleError(ctx, http.StatusBadRequest, "Email is required", "")
			return
		}
		if err != nil {
			// NOTE: StoreUser implementations handle their own error reporting
			handleError(ctx, http.StatusInternalServerError, "Database error", err.Error())
			return
		}

		message := "User updated successfully"
		if result.Created {
			message = "User created successfully"
		}

		response, err := json.Marshal(successResponse{
			Success: true,
			Message: message,
			User:    userResponseFromDomain(result.User),
		})
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to marshal success response: %w", err))
			handleError(ctx, http.StatusInternalServerError, "Internal server error", "")
			return
		}

		logger := logging.FromContext(ctx)
		logger.Info("Stored user", "created", result.Created)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}

	return middleware(handler)
}
