package app

import (
	"context"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
)

type loginRepository interface {
	RecordLogin(ctx context.Context, record domain.LoginRecord) error
}

type RecordLogin func(ctx context.Context, record domain.LoginRecord) error

func BuildRecordLogin(repo loginRepository) RecordLogin {
	return func(ctx context.Context, record domain.LoginRecord) error {
		return repo.RecordLogin(ctx, record)
	}
}
