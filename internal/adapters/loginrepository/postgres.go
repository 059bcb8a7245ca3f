package loginrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("gsc/loginrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

// RecordLogin appends one row to the login history. Rows are never
// updated or deleted.
func (p *Postgres) RecordLogin(ctx context.Context, record domain.LoginRecord) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.RecordLogin")
	defer span.End()

	if record.Email == "" {
		err := fmt.Errorf("email is empty")
		reporting.Report(ctx, err)
		return err
	}

	loginTime := record.LoginTime
	if loginTime.IsZero() {
		loginTime = p.nowFunc()
	}

	_, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.user_logins
		(email, login_time, document_info, app_version)
		VALUES ($1, $2, $3, $4)`,
			pq.QuoteIdentifier(p.schema)),
		record.Email,
		loginTime,
		record.DocumentInfo,
		record.AppVersion,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert login record: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"email": record.Email,
		})
		return err
	}

	return nil
}
