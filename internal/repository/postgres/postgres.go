// Package postgres implements the catalog gateways on PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/utafrali/catalog/pkg/database"
	"github.com/utafrali/catalog/pkg/pagination"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations: %v", err))
	}
	return sub
}

// Migrate applies the catalog schema.
func Migrate(ctx context.Context, db database.DBTX, logger *slog.Logger) error {
	return database.RunMigrations(ctx, db, Migrations(), logger)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching terms anywhere. LIKE
// wildcards inside terms match literally.
func containsPattern(terms string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(terms)) + "%"
}

// textColumns sort case-insensitively, then by byte order, independent of
// the database collation.
var textColumns = map[string]bool{"name": true, "description": true}

// orderBy renders the ORDER BY clause for a listing. column must come from
// a gateway's NormalizeSort, never from user input directly.
func orderBy(column string, q pagination.SearchQuery) string {
	dir := "ASC"
	if q.Descending() {
		dir = "DESC"
	}
	if textColumns[column] {
		return fmt.Sprintf(`ORDER BY LOWER(%[1]s) COLLATE "C" %[2]s, %[1]s COLLATE "C" %[2]s, created_at ASC, id ASC`, column, dir)
	}
	return fmt.Sprintf("ORDER BY %s %s, created_at ASC, id ASC", column, dir)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
