package auth

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

// Repository provides access to the authentication storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new authentication repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

const selectUser = "SELECT id, username, display_name, role FROM users"

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role)
	return u, err
}

// FindUserByUsername finds a user by their username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE username = ?", username))
	return u, database.NotFound(err, "user")
}

// FindUser finds a user by ID.
func (r *Repository) FindUser(ctx context.Context, id int) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE id = ?", id))
	return u, database.NotFound(err, "user")
}

// ListUsers lists every user by username.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, selectUser+" ORDER BY username ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindIdentityByProvider finds an identity by provider and provider user ID.
func (r *Repository) FindIdentityByProvider(ctx context.Context, provider, providerUserID string) (models.Identity, error) {
	var identity models.Identity
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, provider, provider_user_id, password_hash FROM identities WHERE provider = ? AND provider_user_id = ?",
		provider, providerUserID).
		Scan(&identity.ID, &identity.UserID, &identity.Provider, &identity.ProviderUserID, &identity.PasswordHash)
	return identity, database.NotFound(err, "identity")
}

// CreateUser creates a new user and a corresponding identity.
func (r *Repository) CreateUser(ctx context.Context, user *models.User, identity *models.Identity) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO users (username, display_name, role) VALUES (?, ?, ?)",
		user.Username, user.DisplayName, user.Role)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting user id: %w", err)
	}
	user.ID = int(userID)
	identity.UserID = user.ID

	_, err = tx.ExecContext(ctx,
		"INSERT INTO identities (user_id, provider, provider_user_id, password_hash) VALUES (?, ?, ?, ?)",
		identity.UserID, identity.Provider, identity.ProviderUserID, identity.PasswordHash)
	if err != nil {
		return fmt.Errorf("error creating identity: %w", err)
	}

	return tx.Commit()
}

// UpdateUser writes the display name and role of u.
func (r *Repository) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET display_name = ?, role = ? WHERE id = ?", u.DisplayName, u.Role, u.ID)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return database.CheckAffected(res, "user")
}

// SetPassword replaces the password hash of the user's local identity.
func (r *Repository) SetPassword(ctx context.Context, userID int, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE identities SET password_hash = ? WHERE user_id = ? AND provider = 'local'", hash, userID)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return database.CheckAffected(res, "identity")
}

// DeleteUser deletes a user; their identities go with them.
func (r *Repository) DeleteUser(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return database.CheckAffected(res, "user")
}
