// Package auth provides account registration, login and bearer-token
// issuance for the saved-itinerary endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

var _ Repository = (*PostgresRepository)(nil)

// Querier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores and fetches user accounts.
type Repository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error)
}

type PostgresRepository struct {
	db     Querier
	logger *zap.Logger
	sb     squirrel.StatementBuilderType
}

func NewPostgresRepository(db Querier, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.UserAuth, error) {
	query, args, err := r.sb.Insert("users").
		Columns("id", "name", "email", "password_hash").
		Values(uuid.New(), name, email, passwordHash).
		Suffix("RETURNING id, name, email, password_hash, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}

	var user models.UserAuth
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("email %s already registered: %w", email, models.ErrDuplicateEmail)
		}
		r.logger.Error("Failed to insert user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	query, args, err := r.sb.Select("id", "name", "email", "password_hash", "created_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var user models.UserAuth
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.Error("Failed to fetch user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}
