package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "museumbot/internal/config"
	"museumbot/internal/domain"
	"museumbot/internal/domain/models"
)

const museumColumns = `museum_name, location, address, description,
		COALESCE(best_time_to_visit,''), COALESCE(theme,''), COALESCE(timings,''),
		price_per_seat, upi_id, maximum_seats`

// MuseumRepo is the read-only catalog of slot definitions.
type MuseumRepo struct {
	DB *sql.DB
}

func (r MuseumRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r MuseumRepo) FindByName(name string) (models.Museum, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Museum{}, domain.ValidationError{Field: "museum_name", Msg: "empty name"}
	}

	row := r.db().QueryRow(`SELECT `+museumColumns+` FROM museums WHERE museum_name=? LIMIT 1`, name)
	m, err := scanMuseum(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Museum{}, domain.NotFoundError{Resource: "museum"}
		}
		return models.Museum{}, domain.InternalError{Err: err}
	}
	return m, nil
}

func (r MuseumRepo) FindByLocation(location string) ([]models.Museum, error) {
	rows, err := r.db().Query(`SELECT `+museumColumns+` FROM museums WHERE location=? ORDER BY museum_name`, strings.TrimSpace(location))
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	return collectMuseums(rows)
}

func (r MuseumRepo) ListAll() ([]models.Museum, error) {
	rows, err := r.db().Query(`SELECT ` + museumColumns + ` FROM museums ORDER BY museum_name`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	return collectMuseums(rows)
}

func (r MuseumRepo) DistinctLocations() ([]string, error) {
	rows, err := r.db().Query(`SELECT DISTINCT location FROM museums ORDER BY location`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMuseum(row rowScanner) (models.Museum, error) {
	var m models.Museum
	err := row.Scan(
		&m.Name,
		&m.Location,
		&m.Address,
		&m.Description,
		&m.BestTimeToVisit,
		&m.Theme,
		&m.Timings,
		&m.PricePerSeat,
		&m.UPIID,
		&m.MaximumSeats,
	)
	return m, err
}

func collectMuseums(rows *sql.Rows) ([]models.Museum, error) {
	out := []models.Museum{}
	for rows.Next() {
		m, err := scanMuseum(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
