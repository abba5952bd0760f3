// Package trips persists generated itineraries per user.
package trips

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

var _ Repository = (*PostgresRepository)(nil)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository stores and lists saved itineraries.
type Repository interface {
	Save(ctx context.Context, userID uuid.UUID, doc *models.ItineraryDocument) (*models.SavedTrip, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedTrip, error)
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

func (r *PostgresRepository) Save(ctx context.Context, userID uuid.UUID, doc *models.ItineraryDocument) (*models.SavedTrip, error) {
	document, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding itinerary: %w", err)
	}

	query, args, err := r.sb.Insert("trips").
		Columns("id", "user_id", "destination", "duration_days", "budget", "document").
		Values(uuid.New(), userID, doc.Destination, doc.DurationDays, doc.Budget, document).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}

	trip := &models.SavedTrip{
		UserID:       userID,
		Destination:  doc.Destination,
		DurationDays: doc.DurationDays,
		Budget:       doc.Budget,
		Document:     document,
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&trip.ID, &trip.CreatedAt); err != nil {
		r.logger.Error("Failed to save trip",
			zap.String("userID", userID.String()),
			zap.String("destination", doc.Destination),
			zap.Error(err))
		return nil, fmt.Errorf("database error saving trip: %w", err)
	}
	return trip, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedTrip, error) {
	query, args, err := r.sb.Select("id", "user_id", "destination", "duration_days", "budget", "document", "created_at").
		From("trips").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list trips", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error listing trips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.SavedTrip, 0)
	for rows.Next() {
		var trip models.SavedTrip
		if err := rows.Scan(&trip.ID, &trip.UserID, &trip.Destination, &trip.DurationDays, &trip.Budget, &trip.Document, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning trip row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip rows: %w", err)
	}
	return trips, nil
}
