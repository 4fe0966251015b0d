package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

var ErrNotFound = errors.New("not found")

// Repository mirrors the in-memory flight table to Postgres. The engine
// remains the source of truth at runtime; the database is a durable copy
// loaded at startup and updated write-behind.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadAll returns all persisted flights in insertion order.
func (r *Repository) LoadAll(ctx context.Context) ([]models.Flight, error) {
	query := `
		SELECT id, departure_city, destination_city, stop_over, departure_date,
		       departure_time, arrival_time, price, tickets,
		       is_delay, delay_minutes, is_cancelled, is_for_sale
		FROM flights
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		var f models.Flight
		err := rows.Scan(
			&f.ID, &f.DepartureCity, &f.DestinationCity, &f.StopOver,
			&f.DepartureDate, &f.DepartureTime, &f.ArrivalTime,
			&f.Price, &f.Tickets,
			&f.IsDelay, &f.DelayMinutes, &f.IsCancelled, &f.IsForSale,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, f)
	}

	return flights, nil
}

// GetByID returns a persisted flight by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	query := `
		SELECT id, departure_city, destination_city, stop_over, departure_date,
		       departure_time, arrival_time, price, tickets,
		       is_delay, delay_minutes, is_cancelled, is_for_sale
		FROM flights
		WHERE id = $1
	`

	var f models.Flight
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.DepartureCity, &f.DestinationCity, &f.StopOver,
		&f.DepartureDate, &f.DepartureTime, &f.ArrivalTime,
		&f.Price, &f.Tickets,
		&f.IsDelay, &f.DelayMinutes, &f.IsCancelled, &f.IsForSale,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	return &f, nil
}

// Upsert inserts or replaces a flight row.
func (r *Repository) Upsert(ctx context.Context, f models.Flight) error {
	query := `
		INSERT INTO flights (
			id, departure_city, destination_city, stop_over, departure_date,
			departure_time, arrival_time, price, tickets,
			is_delay, delay_minutes, is_cancelled, is_for_sale
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			departure_city   = EXCLUDED.departure_city,
			destination_city = EXCLUDED.destination_city,
			stop_over        = EXCLUDED.stop_over,
			departure_date   = EXCLUDED.departure_date,
			departure_time   = EXCLUDED.departure_time,
			arrival_time     = EXCLUDED.arrival_time,
			price            = EXCLUDED.price,
			tickets          = EXCLUDED.tickets,
			is_delay         = EXCLUDED.is_delay,
			delay_minutes    = EXCLUDED.delay_minutes,
			is_cancelled     = EXCLUDED.is_cancelled,
			is_for_sale      = EXCLUDED.is_for_sale
	`

	_, err := r.pool.Exec(ctx, query,
		f.ID, f.DepartureCity, f.DestinationCity, f.StopOver, f.DepartureDate,
		f.DepartureTime, f.ArrivalTime, f.Price, f.Tickets,
		f.IsDelay, f.DelayMinutes, f.IsCancelled, f.IsForSale,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert flight: %w", err)
	}
	return nil
}

// Delete removes a flight row. Deleting an absent row is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flights WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	return nil
}
