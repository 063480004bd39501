package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restro_backend/internal/models"

	"github.com/lib/pq"
)

// AuthRepository defines the interface for user and role database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (int64, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetRoleByName(name string) (*models.Role, error)
	GetUsers(page, pageSize int) ([]models.User, int, error)
	SetUserActive(executor SQLExecutor, userID int64, active bool) error
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const userSelectColumns = `u.id, u.username, u.password_hash, u.email, u.full_name, u.role_id,
	    u.is_active, u.created_at, u.updated_at,
	    r.id, r.name, r.description, r.created_at, r.updated_at`

func scanUserWithRole(s scanner) (*models.User, error) {
	user := &models.User{}
	var roleID sql.NullInt64
	var rID sql.NullInt64
	var rName, rDesc sql.NullString
	var rCreated, rUpdated sql.NullTime

	err := s.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.FullName, &roleID,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&rID, &rName, &rDesc, &rCreated, &rUpdated,
	)
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		user.RoleID = &roleID.Int64
	}
	if rID.Valid {
		role := &models.Role{ID: rID.Int64}
		if rName.Valid {
			role.Name = rName.String
		}
		if rDesc.Valid {
			desc := rDesc.String
			role.Description = &desc
		}
		if rCreated.Valid {
			role.CreatedAt = rCreated.Time
		}
		if rUpdated.Valid {
			role.UpdatedAt = rUpdated.Time
		}
		user.Role = role
	}
	return user, nil
}

func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, role_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	currentTime := time.Now()

	var roleID sql.NullInt64
	if user.RoleID != nil {
		roleID = sql.NullInt64{Int64: *user.RoleID, Valid: true}
	}

	err := executor.QueryRow(query,
		user.Username, user.PasswordHash, user.Email, user.FullName, roleID,
		user.IsActive, currentTime, currentTime,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: username or email already taken (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.ID, nil
}

func (r *authRepository) GetUserByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          LEFT JOIN roles r ON u.role_id = r.id
	          WHERE u.username = $1`
	user, err := scanUserWithRole(r.db.QueryRow(query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by username: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func (r *authRepository) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          LEFT JOIN roles r ON u.role_id = r.id
	          WHERE u.id = $1`
	user, err := scanUserWithRole(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %d: %v", ErrDatabaseError, id, err)
	}
	return user, nil
}

func (r *authRepository) GetRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	query := `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`
	err := r.db.QueryRow(query, name).Scan(
		&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting role by name '%s': %v", ErrDatabaseError, name, err)
	}
	return role, nil
}

func (r *authRepository) GetUsers(page, pageSize int) ([]models.User, int, error) {
	users := []models.User{}
	totalCount := 0

	query := `SELECT ` + userSelectColumns + `, COUNT(*) OVER() AS total_count
	          FROM users u
	          LEFT JOIN roles r ON u.role_id = r.id
	          ORDER BY u.username
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		user := models.User{}
		var roleID, rID sql.NullInt64
		var rName, rDesc sql.NullString
		var rCreated, rUpdated sql.NullTime
		if err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.FullName, &roleID,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
			&rID, &rName, &rDesc, &rCreated, &rUpdated,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		if roleID.Valid {
			user.RoleID = &roleID.Int64
		}
		if rID.Valid {
			role := &models.Role{ID: rID.Int64, Name: rName.String}
			if rDesc.Valid {
				desc := rDesc.String
				role.Description = &desc
			}
			user.Role = role
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, totalCount, nil
}

func (r *authRepository) SetUserActive(executor SQLExecutor, userID int64, active bool) error {
	result, err := executor.Exec(`UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("%w: updating user %d active flag: %v", ErrDatabaseError, userID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
