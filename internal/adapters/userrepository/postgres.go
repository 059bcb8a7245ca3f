package userrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const uniqueViolationCode = "23505"

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("gsc/userrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

type dbUser struct {
	ID                 string    `db:"id"`
	Email              string    `db:"email"`
	Name               string    `db:"name"`
	Picture            string    `db:"picture"`
	AppVersion         string    `db:"app_version"`
	Timezone           string    `db:"timezone"`
	DocumentInfo       string    `db:"document_info"`
	InstallationSource string    `db:"installation_source"`
	CreatedAt          time.Time `db:"created_at"`
	LastLogin          time.Time `db:"last_login"`
}

func (u dbUser) toDomain() domain.User {
	return domain.User{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Picture:            u.Picture,
		AppVersion:         u.AppVersion,
		Timezone:           u.Timezone,
		DocumentInfo:       u.DocumentInfo,
		InstallationSource: u.InstallationSource,
		CreatedAt:          u.CreatedAt,
		LastLogin:          u.LastLogin,
	}
}

const userColumns = "id, email, name, picture, app_version, timezone, document_info, installation_source, created_at, last_login"

func (p *Postgres) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetByEmail")
	defer span.End()

	if email == "" {
		err := fmt.Errorf("email is empty")
		reporting.Report(ctx, err)
		return domain.User{}, err
	}

	var user dbUser
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`SELECT %s FROM %s.users WHERE email = $1 LIMIT 1`,
			userColumns, pq.QuoteIdentifier(p.schema)),
		email,
	).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("failed to get user by email: %w", err)
		reporting.Report(ctx, err)
		return domain.User{}, err
	}

	return user.toDomain(), nil
}

func (p *Postgres) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.Create")
	defer span.End()

	now := p.nowFunc()
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	var stored dbUser
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.users
		(id, email, name, picture, app_version, timezone, document_info, installation_source, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
			pq.QuoteIdentifier(p.schema), userColumns),
		user.ID,
		user.Email,
		user.Name,
		user.Picture,
		user.AppVersion,
		user.Timezone,
		user.DocumentInfo,
		user.InstallationSource,
		createdAt,
		now,
	).StructScan(&stored)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			// Lost the existence-check race. Not reported: the caller
			// retries as an update.
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, user.Email)
		}
		err := fmt.Errorf("failed to insert user: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"email": user.Email,
		})
		return domain.User{}, err
	}

	return stored.toDomain(), nil
}

func (p *Postgres) Update(ctx context.Context, update domain.UserUpdate) (domain.User, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.Update")
	defer span.End()

	now := p.nowFunc()

	var stored dbUser
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`UPDATE %s.users SET
			name = $2,
			picture = $3,
			last_login = $4,
			app_version = COALESCE($5, app_version),
			timezone = COALESCE($6, timezone),
			document_info = COALESCE($7, document_info)
		WHERE email = $1
		RETURNING %s`,
			pq.QuoteIdentifier(p.schema), userColumns),
		update.Email,
		update.Name,
		update.Picture,
		now,
		update.AppVersion,
		update.Timezone,
		update.DocumentInfo,
	).StructScan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("failed to update user: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"email": update.Email,
		})
		return domain.User{}, err
	}

	return stored.toDomain(), nil
}
