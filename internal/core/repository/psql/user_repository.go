package psql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	database "github.com/duynhne/customer-service/internal/core"
	"github.com/duynhne/customer-service/internal/core/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL.
// Roles are stored as a jsonb array, matching the original schema.
type UserRepository struct{}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByID retrieves a user by id.
// Returns domain.ErrUserNotFound when no row exists.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `SELECT id, email, roles, password FROM "user" WHERE id = $1`
	user, err := scanUser(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("find user %d: %w", id, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by unique email.
// Returns domain.ErrUserNotFound when no row exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	query := `SELECT id, email, roles, password FROM "user" WHERE email = $1`
	user, err := scanUser(db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("find user %q: %w", email, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// Create inserts a new user and assigns its id.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	db := database.GetPool()
	if db == nil {
		return errors.New("database connection not available")
	}

	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}

	query := `INSERT INTO "user" (email, roles, password) VALUES ($1, $2::jsonb, $3) RETURNING id`
	if err := db.QueryRow(ctx, query, user.Email, string(roles), user.Password).Scan(&user.ID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var roles []byte
	if err := row.Scan(&user.ID, &user.Email, &roles, &user.Password); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return user, nil
}
