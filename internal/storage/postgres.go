package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/safestay/shelter-bot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name`

	if _, err := s.db.ExecContext(ctx, query, user.ID, user.Username, user.FirstName, user.LastName); err != nil {
		return fmt.Errorf("error upserting user: %w", err)
	}

	return nil
}

func (s *PostgresStorage) CreateAd(ctx context.Context, ad *models.Ad) (int64, error) {
	query := `
		INSERT INTO ads (user_id, name, phone, area, city, capacity, date_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		ad.UserID, ad.Name, ad.Phone, ad.Area, ad.City, ad.Capacity, ad.DateAvailable,
	).Scan(&ad.ID, &ad.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating ad: %w", err)
	}

	return ad.ID, nil
}

func (s *PostgresStorage) PublishAd(ctx context.Context, user *models.User, ad *models.Ad) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name`

	if _, err := tx.ExecContext(ctx, upsert, user.ID, user.Username, user.FirstName, user.LastName); err != nil {
		return 0, fmt.Errorf("error upserting user: %w", err)
	}

	insert := `
		INSERT INTO ads (user_id, name, phone, area, city, capacity, date_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, insert,
		ad.UserID, ad.Name, ad.Phone, ad.Area, ad.City, ad.Capacity, ad.DateAvailable,
	).Scan(&ad.ID, &ad.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("error inserting ad: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing ad: %w", err)
	}

	return ad.ID, nil
}

const adColumns = "id, user_id, name, phone, area, city, capacity, date_available, created_at"

func (s *PostgresStorage) ListAds(ctx context.Context) ([]*models.Ad, error) {
	query := fmt.Sprintf("SELECT %s FROM ads ORDER BY date_available ASC", adColumns)
	return s.queryAds(ctx, query)
}

func (s *PostgresStorage) ListAdsByOwner(ctx context.Context, userID int64) ([]*models.Ad, error) {
	query := fmt.Sprintf("SELECT %s FROM ads WHERE user_id = $1 ORDER BY date_available ASC", adColumns)
	return s.queryAds(ctx, query, userID)
}

func (s *PostgresStorage) ListAdsByArea(ctx context.Context, area models.Area) ([]*models.Ad, error) {
	query := fmt.Sprintf("SELECT %s FROM ads WHERE area = $1 ORDER BY date_available ASC", adColumns)
	return s.queryAds(ctx, query, string(area))
}

func (s *PostgresStorage) queryAds(ctx context.Context, query string, args ...any) ([]*models.Ad, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying ads: %w", err)
	}
	defer rows.Close()

	var ads []*models.Ad
	for rows.Next() {
		ad := &models.Ad{}
		var date time.Time
		err := rows.Scan(
			&ad.ID,
			&ad.UserID,
			&ad.Name,
			&ad.Phone,
			&ad.Area,
			&ad.City,
			&ad.Capacity,
			&date,
			&ad.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning ad: %w", err)
		}
		ad.DateAvailable = date.Format("2006-01-02")
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ads: %w", err)
	}

	return ads, nil
}

func (s *PostgresStorage) UpdateAdField(ctx context.Context, adID, ownerID int64, field models.Field, value any) error {
	if !field.Valid() {
		return ErrInvalidField
	}

	// The column name comes from the fixed Field set, never from user input.
	query := fmt.Sprintf("UPDATE ads SET %s = $1 WHERE id = $2 AND user_id = $3", field)

	result, err := s.db.ExecContext(ctx, query, value, adID, ownerID)
	if err != nil {
		return fmt.Errorf("error updating ad field: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAdNotFound
	}

	return nil
}

func (s *PostgresStorage) DeleteAd(ctx context.Context, adID, ownerID int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM ads WHERE id = $1 AND user_id = $2", adID, ownerID)
	if err != nil {
		return fmt.Errorf("error deleting ad: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAdNotFound
	}

	return nil
}

func (s *PostgresStorage) DeleteAdAnyOwner(ctx context.Context, adID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM ads WHERE id = $1", adID); err != nil {
		return fmt.Errorf("error deleting ad: %w", err)
	}
	return nil
}

func (s *PostgresStorage) AddReport(ctx context.Context, adID, userID int64) error {
	query := `
		INSERT INTO ad_reports (ad_id, user_id, reported_at)
		VALUES ($1, $2, now())`

	if _, err := s.db.ExecContext(ctx, query, adID, userID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation: a racing duplicate report
				return ErrAlreadyReported
			case "23503": // foreign_key_violation: the ad is gone
				return ErrAdNotFound
			}
		}
		return fmt.Errorf("error inserting report: %w", err)
	}

	return nil
}

func (s *PostgresStorage) HasReport(ctx context.Context, adID, userID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ad_reports WHERE ad_id = $1 AND user_id = $2", adID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error counting user reports: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStorage) CountReports(ctx context.Context, adID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ad_reports WHERE ad_id = $1", adID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting reports: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
