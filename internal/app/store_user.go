package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/logging"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/reporting"
)

type userRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, update domain.UserUpdate) (domain.User, error)
}

// StoreUserInput is the decoded request payload. Pointer fields
// distinguish "omitted" from "set to empty": an omitted field is left
// unchanged on update, and stored as an explicit empty value on create.
type StoreUserInput struct {
	Email              string
	UserID             *string
	Name               *string
	Picture            *string
	AppVersion         *string
	Timezone           *string
	DocumentInfo       *string
	InstallationSource *string
	InstallDate        *string
}

type StoreUserResult struct {
	User    domain.User
	Created bool
}

type StoreUser func(ctx context.Context, input StoreUserInput) (StoreUserResult, error)

func BuildStoreUser(repo userRepository, recordLogin RecordLogin, newID func() string) StoreUser {
	return func(ctx context.Context, input StoreUserInput) (StoreUserResult, error) {
		if input.Email == "" {
			return StoreUserResult{}, domain.ErrEmailRequired
		}

		_, err := repo.GetByEmail(ctx, input.Email)
		exists := true
		if errors.Is(err, domain.ErrUserNotFound) {
			exists = false
		} else if err != nil {
			// NOTE: UserRepository implementations handle their own error reporting
			return StoreUserResult{}, err
		}

		var user domain.User
		if exists {
			user, err = repo.Update(ctx, updateFromInput(input))
		} else {
			user, err = repo.Create(ctx, newUserFromInput(ctx, input, newID))
			if errors.Is(err, domain.ErrDuplicateEmail) {
				// Lost the insert race against a concurrent request for
				// the same new email. The row exists now, so retry as an
				// update.
				exists = true
				user, err = repo.Update(ctx, updateFromInput(input))
			}
		}
		if err != nil {
			return StoreUserResult{}, err
		}

		recordLoginDetached(ctx, recordLogin, input)

		return StoreUserResult{
			User:    user,
			Created: !exists,
		}, nil
	}
}

// recordLoginDetached writes the login event outside the request
// lifecycle. Login history is diagnostic only, so failures are reported
// and never surfaced to the caller.
func recordLoginDetached(ctx context.Context, recordLogin RecordLogin, input StoreUserInput) {
	loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	go func() {
		defer cancel()
		err := recordLogin(loginCtx, domain.LoginRecord{
			Email:        input.Email,
			DocumentInfo: orEmpty(input.DocumentInfo),
			AppVersion:   orEmpty(input.AppVersion),
		})
		if err != nil {
			reporting.Report(loginCtx, fmt.Errorf("failed to record login: %w", err), map[string]string{
				"email": input.Email,
			})
		}
	}()
}

func newUserFromInput(ctx context.Context, input StoreUserInput, newID func() string) domain.User {
	id := orEmpty(input.UserID)
	if id == "" {
		id = newID()
	}

	var createdAt time.Time
	if input.InstallDate != nil {
		parsed, err := time.Parse(time.RFC3339, *input.InstallDate)
		if err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn("Ignoring unparseable install_date", "installDate", *input.InstallDate, "error", err.Error())
		} else {
			createdAt = parsed
		}
	}

	return domain.User{
		ID:                 id,
		Email:              input.Email,
		Name:               orEmpty(input.Name),
		Picture:            orEmpty(input.Picture),
		AppVersion:         orEmpty(input.AppVersion),
		Timezone:           orEmpty(input.Timezone),
		DocumentInfo:       orEmpty(input.DocumentInfo),
		InstallationSource: orEmpty(input.InstallationSource),
		CreatedAt:          createdAt,
	}
}

func updateFromInput(input StoreUserInput) domain.UserUpdate {
	return domain.UserUpdate{
		Email:        input.Email,
		Name:         orEmpty(input.Name),
		Picture:      orEmpty(input.Picture),
		AppVersion:   input.AppVersion,
		Timezone:     input.Timezone,
		DocumentInfo: input.DocumentInfo,
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
