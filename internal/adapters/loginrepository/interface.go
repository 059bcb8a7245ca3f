package loginrepository

import (
	"context"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
)

type LoginRepository interface {
	RecordLogin(ctx context.Context, record domain.LoginRecord) error
}
