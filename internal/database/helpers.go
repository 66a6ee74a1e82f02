package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"campuscms/internal/models"
)

// Now is the timestamp written to created_at/updated_at columns. Values are
// stored in UTC with second precision so that they compare as text.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Normalize prepares a caller supplied time for storage.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// NotFound maps sql.ErrNoRows to models.ErrNotFound and wraps other errors.
func NotFound(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("error loading %s: %w", what, err)
}

// CheckAffected returns models.ErrNotFound when an UPDATE or DELETE touched no rows.
func CheckAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}

// Like escapes a user search term for a LIKE ... ESCAPE '\' clause.
func Like(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// IsConstraint reports whether err is a UNIQUE, FOREIGN KEY or NOT NULL
// violation, which callers treat as invalid input.
func IsConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
