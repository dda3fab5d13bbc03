package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/creche-api/internal/models"
)

// IdentityRepository stores sign-in credentials.
type IdentityRepository struct {
	db *sqlx.DB
}

// NewIdentityRepository constructs an IdentityRepository.
func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// FindByEmail looks up credentials case-insensitively.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	const query = `SELECT id, email, password_hash, created_at FROM auth_identities WHERE email = $1 LIMIT 1`
	var identity models.Identity
	if err := r.db.GetContext(ctx, &identity, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find identity by email: %w", err)
	}
	return &identity, nil
}

// CreateAccount inserts an identity and its profile in one transaction. The profile
// shares the identity id.
func (r *IdentityRepository) CreateAccount(ctx context.Context, identity *models.Identity, user *models.User) (err error) {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	user.ID = identity.ID
	user.Email = identity.Email
	user.CreatedAt = identity.CreatedAt

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create account: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const identityQuery = `INSERT INTO auth_identities (id, email, password_hash, created_at) VALUES (:id, :email, :password_hash, :created_at)`
	if _, err = tx.NamedExecContext(ctx, identityQuery, identity); err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	const userQuery = `INSERT INTO users (id, email, name, role, created_at) VALUES (:id, :email, :name, :role, :created_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create account: %w", err)
	}
	return nil
}
