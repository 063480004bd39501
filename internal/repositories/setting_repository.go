package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restro_backend/internal/models"
)

// SettingRepository defines the interface for application settings database operations.
type SettingRepository interface {
	GetSetting(key string) (*models.ApplicationSetting, error)
	GetSettings() ([]models.ApplicationSetting, error)
	UpsertSetting(executor SQLExecutor, key, value string) error
}

type settingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(db *sql.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetSetting(key string) (*models.ApplicationSetting, error) {
	setting := &models.ApplicationSetting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM application_settings WHERE setting_key = $1`
	err := r.db.QueryRow(query, key).Scan(
		&setting.ID, &setting.SettingKey, &setting.SettingValue, &setting.Description,
		&setting.CreatedAt, &setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting setting '%s': %v", ErrDatabaseError, key, err)
	}
	return setting, nil
}

func (r *settingRepository) GetSettings() ([]models.ApplicationSetting, error) {
	settings := []models.ApplicationSetting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM application_settings ORDER BY setting_key`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting settings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var setting models.ApplicationSetting
		if err := rows.Scan(
			&setting.ID, &setting.SettingKey, &setting.SettingValue, &setting.Description,
			&setting.CreatedAt, &setting.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning setting: %v", ErrDatabaseError, err)
		}
		settings = append(settings, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating settings: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

func (r *settingRepository) UpsertSetting(executor SQLExecutor, key, value string) error {
	query := `INSERT INTO application_settings (setting_key, setting_value, created_at, updated_at)
	          VALUES ($1, $2, $3, $3)
	          ON CONFLICT (setting_key) DO UPDATE SET
	            setting_value = EXCLUDED.setting_value,
	            updated_at = EXCLUDED.updated_at`
	if _, err := executor.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("%w: upserting setting '%s': %v", ErrDatabaseError, key, err)
	}
	return nil
}
