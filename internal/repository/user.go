package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/shakeeb2001/Weather-App/internal/models"

	_ "modernc.org/sqlite"
)

var (
	ErrUserExists   = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository persists one row per registrant. The weather history lives
// inside the row as a JSON array column and is only ever appended to.
type UserRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewUserRepository(db *sql.DB, logger *log.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, email, location string) (models.User, error) {
	var cnt int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email,
	).Scan(&cnt)
	if err != nil {
		return models.User{}, err
	}
	if cnt > 0 {
		return models.User{}, ErrUserExists
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, location, weather_history) VALUES (?, ?, '[]')`,
		email, location,
	)
	if err != nil {
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return models.User{ID: id, Email: email, Location: location, WeatherHistory: []models.WeatherRecord{}}, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		user    models.User
		history []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, location, weather_history FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.Location, &history)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if err := json.Unmarshal(history, &user.WeatherHistory); err != nil {
		return models.User{}, fmt.Errorf("decode weather history for %s: %w", email, err)
	}

	return user, nil
}

func (r *UserRepository) UpdateLocation(ctx context.Context, email, location string) (models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET location = ? WHERE email = ?`, location, email,
	)
	if err != nil {
		return models.User{}, err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if count == 0 {
		return models.User{}, ErrUserNotFound
	}

	return r.GetByEmail(ctx, email)
}

// List returns every registrant without their histories; the scheduler only
// needs email and location for a tick.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, location FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.logger.Println("failed to close rows:", err)
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Location); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// AppendRecord adds one dated snapshot to the end of the user's history.
// Existing entries are never touched; same-day duplicates are allowed.
func (r *UserRepository) AppendRecord(ctx context.Context, email, date string, payload json.RawMessage) error {
	record, err := json.Marshal(models.WeatherRecord{Date: date, Payload: payload})
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET weather_history = json_insert(weather_history, '$[#]', json(?)) WHERE email = ?`,
		string(record), email,
	)
	if err != nil {
		return err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RecordsByDate returns every history entry whose date matches, in insertion
// order. The result may be empty or hold several entries for one day.
func (r *UserRepository) RecordsByDate(ctx context.Context, email, date string) ([]models.WeatherRecord, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	records := make([]models.WeatherRecord, 0)
	for _, rec := range user.WeatherHistory {
		if rec.Date == date {
			records = append(records, rec)
		}
	}

	return records, nil
}
