package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/destinations/domain"
)

const destinationColumns = `id, name, description, image_url, latitude, longitude, country, city, category, rating, created_at, updated_at`

type DestinationRepository struct{}

func NewDestinationRepository() *DestinationRepository {
	return &DestinationRepository{}
}

// List applies the filters and returns one page ordered by rating, best first.
func (r *DestinationRepository) List(ctx context.Context, q backend.Querier, f domain.Filters, limit, offset int) ([]domain.Destination, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Country != "" {
		add("country = $%d", f.Country)
	}
	if f.City != "" {
		add("city = $%d", f.City)
	}
	if f.Search != "" {
		add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(f.Search)+"%")
	}

	query := `SELECT ` + destinationColumns + ` FROM destinations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY rating DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// GetByID returns nil, nil when no row matches.
func (r *DestinationRepository) GetByID(ctx context.Context, q backend.Querier, id string) (*domain.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = $1`

	d, err := scanDestination(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDestination(row rowScanner) (*domain.Destination, error) {
	var (
		d                                               domain.Destination
		description, imageURL, country, city, category sql.NullString
		rating                                          sql.NullFloat64
	)

	if err := row.Scan(&d.ID, &d.Name, &description, &imageURL, &d.Latitude, &d.Longitude,
		&country, &city, &category, &rating, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	d.Description = nullString(description)
	d.ImageURL = nullString(imageURL)
	d.Country = nullString(country)
	d.City = nullString(city)
	d.Category = nullString(category)
	if rating.Valid {
		d.Rating = &rating.Float64
	}
	return &d, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
