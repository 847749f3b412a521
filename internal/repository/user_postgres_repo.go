package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const userColumns = `id, email, fullname, password_hash, is_active, is_staff, created_at`

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (email, fullname, password_hash, is_active, is_staff)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	r.log.Debugf("Repository: Attempting to create user with email: %s", user.Email)

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		user.Email, user.Fullname, user.PasswordHash, user.IsActive, user.IsStaff,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			r.log.Warnf("Repository: Attempted to create user with duplicate email: %s", user.Email)
			return nil, domain.Conflict("user with email '%s' already exists", user.Email)
		}
		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: User created successfully with ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	r.log.Debugf("Repository: Attempting to find user by email: %s", email)

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with email %s not found", email)
			return nil, domain.NotFound("user with email %s not found", email)
		}
		r.log.Errorf("Repository: Failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	r.log.Debugf("Repository: User found by email %s (ID: %d)", email, user.ID)
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, domain.NotFound("user with id %d not found", id)
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	r.log.Debugf("Repository: User found by ID %d (Email: %s)", id, user.Email)
	return user, nil
}

func (r *postgresUserRepository) CountCustomers(ctx context.Context) (int, error) {
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_staff = FALSE`).Scan(&count); err != nil {
		r.log.Errorf("Repository: Failed to count customers: %v", err)
		return 0, fmt.Errorf("could not count customers: %w", err)
	}
	return count, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Fullname,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsStaff,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
