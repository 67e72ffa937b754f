package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fleetcrm/fleetcrm/migrations"
)

type migration struct {
	version int
	name    string
	up      string
	down    string
}

var errBadFilename = errors.New("migration filename must look like 001_name.up.sql")

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or status")
	steps := flag.Int("steps", 1, "number of migrations to revert in down mode (0 reverts all)")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	all, err := loadMigrations(migrations.FS)
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		log.Fatalf("failed to read schema_migrations: %v", err)
	}

	switch strings.ToLower(*mode) {
	case "up":
		n, err := migrateUp(ctx, db, all, applied)
		if err != nil {
			log.Fatalf("migration up failed: %v", err)
		}
		log.Printf("applied %d migration(s)", n)
	case "down":
		n, err := migrateDown(ctx, db, all, applied, *steps)
		if err != nil {
			log.Fatalf("migration down failed: %v", err)
		}
		log.Printf("reverted %d migration(s)", n)
	case "status":
		for _, m := range all {
			state := "pending"
			if applied[m.version] {
				state = "applied"
			}
			fmt.Printf("%03d  %-8s %s\n", m.version, state, m.name)
		}
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// loadMigrations pairs up and down files by version, sorted ascending
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	byVersion := map[int]*migration{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, name, direction, err := parseFilename(e.Name())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}

		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version, name: name}
			byVersion[version] = m
		} else if m.name != name {
			return nil, fmt.Errorf("version %03d used by %q and %q", version, m.name, name)
		}
		if direction == "up" {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %03d_%s has no up file", m.version, m.name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// parseFilename splits 001_create_users.up.sql into 1, "create_users", "up"
func parseFilename(filename string) (int, string, string, error) {
	var direction string
	switch {
	case strings.HasSuffix(filename, ".up.sql"):
		direction = "up"
	case strings.HasSuffix(filename, ".down.sql"):
		direction = "down"
	default:
		return 0, "", "", errBadFilename
	}
	base := strings.TrimSuffix(filename, "."+direction+".sql")

	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", "", errBadFilename
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil || version <= 0 {
		return 0, "", "", errBadFilename
	}
	return version, parts[1], direction, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func migrateUp(ctx context.Context, db *sql.DB, all []migration, applied map[int]bool) (int, error) {
	count := 0
	for _, m := range all {
		if applied[m.version] {
			continue
		}
		log.Printf("applying %03d_%s", m.version, m.name)
		err := inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%03d_%s: %w", m.version, m.name, err)
		}
		count++
	}
	return count, nil
}

func migrateDown(ctx context.Context, db *sql.DB, all []migration, applied map[int]bool, steps int) (int, error) {
	count := 0
	for i := len(all) - 1; i >= 0; i-- {
		if steps > 0 && count == steps {
			break
		}
		m := all[i]
		if !applied[m.version] {
			continue
		}
		if m.down == "" {
			return count, fmt.Errorf("%03d_%s has no down file", m.version, m.name)
		}
		log.Printf("reverting %03d_%s", m.version, m.name)
		err := inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.version)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%03d_%s: %w", m.version, m.name, err)
		}
		count++
	}
	return count, nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
