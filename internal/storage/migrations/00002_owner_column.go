package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upOwnerColumn, downOwnerColumn)
}

// ownedTable describes the current shape of a user-partitioned table so a
// legacy copy (created before owner scoping existed) can be rebuilt.
type ownedTable struct {
	name    string
	schema  string
	columns []string
}

var ownedTables = []ownedTable{
	{
		name: "accounts",
		schema: `id TEXT PRIMARY KEY,
			userId TEXT NOT NULL DEFAULT '',
			serviceName TEXT NOT NULL,
			email TEXT NOT NULL,
			category TEXT NOT NULL,
			accountId TEXT,
			password TEXT,
			apiKey TEXT,
			notes TEXT,
			priority TEXT DEFAULT 'normal',
			createdAt INTEGER NOT NULL,
			updatedAt INTEGER NOT NULL,
			lastUsed INTEGER`,
		columns: []string{"id", "userId", "serviceName", "email", "category", "accountId",
			"password", "apiKey", "notes", "priority", "createdAt", "updatedAt", "lastUsed"},
	},
	{
		name: "projects",
		schema: `id TEXT PRIMARY KEY,
			userId TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			createdAt INTEGER NOT NULL,
			updatedAt INTEGER NOT NULL`,
		columns: []string{"id", "userId", "name", "createdAt", "updatedAt"},
	},
	{
		name: "project_services",
		schema: `id TEXT PRIMARY KEY,
			projectId TEXT NOT NULL,
			userId TEXT NOT NULL DEFAULT '',
			serviceName TEXT NOT NULL,
			email TEXT,
			password TEXT,
			apiKey TEXT,
			expiryDate TEXT,
			notes TEXT,
			createdAt INTEGER NOT NULL`,
		columns: []string{"id", "projectId", "userId", "serviceName", "email",
			"password", "apiKey", "expiryDate", "notes", "createdAt"},
	},
}

// upOwnerColumn rebuilds any table that predates owner scoping (no userId
// column) through a shadow table: create the new shape, copy every legacy
// column, drop the old table, rename the shadow into place. A legacy column
// that has no home in the new schema aborts the migration; rows are never
// dropped silently.
func upOwnerColumn(ctx context.Context, tx *sql.Tx) error {
	for _, t := range ownedTables {
		hasUserID, err := tableHasColumn(ctx, tx, t.name, "userId")
		if err != nil {
			return err
		}
		if hasUserID {
			continue
		}
		if err := rebuildTable(ctx, tx, t); err != nil {
			return fmt.Errorf("failed to migrate table %s: %w", t.name, err)
		}
	}
	return nil
}

func downOwnerColumn(ctx context.Context, tx *sql.Tx) error {
	// The owner column is required by everything above the storage layer;
	// rolling it back would orphan all user partitioning.
	return nil
}

func tableHasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	// Table names come from the fixed list above, never from input.
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func tableColumns(ctx context.Context, tx *sql.Tx, table string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func rebuildTable(ctx context.Context, tx *sql.Tx, t ownedTable) error {
	oldCols, err := tableColumns(ctx, tx, t.name)
	if err != nil {
		return err
	}

	declared := make(map[string]struct{}, len(t.columns))
	for _, c := range t.columns {
		declared[c] = struct{}{}
	}
	for _, c := range oldCols {
		if _, ok := declared[c]; !ok {
			return fmt.Errorf("legacy column %q has no destination in the new schema", c)
		}
	}
	copyList := strings.Join(oldCols, ", ")

	shadow := t.name + "_new"
	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, shadow),
		fmt.Sprintf(`CREATE TABLE %s (%s)`, shadow, t.schema),
		fmt.Sprintf(`INSERT INTO %s (%s) SELECT %s FROM %s`, shadow, copyList, copyList, t.name),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var oldCount, newCount int
	if err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.name)).Scan(&oldCount); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, shadow)).Scan(&newCount); err != nil {
		return err
	}
	if oldCount != newCount {
		return fmt.Errorf("row count mismatch after copy: %d != %d", oldCount, newCount)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE %s`, t.name)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s RENAME TO %s`, shadow, t.name)); err != nil {
		return err
	}
	return nil
}
