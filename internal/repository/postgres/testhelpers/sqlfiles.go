package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ResetSchema drops the snapshot schema with the .down.sql files (newest first) and recreates it
// with the .up.sql files, so every suite starts from empty tables.
func ResetSchema(ctx context.Context, db *sqlx.DB, migrationsDir string) error {
	down, err := migrationFiles(migrationsDir, ".down.sql")
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(down)))
	if err := ExecFiles(ctx, db, down...); err != nil {
		return err
	}

	up, err := migrationFiles(migrationsDir, ".up.sql")
	if err != nil {
		return err
	}
	return ExecFiles(ctx, db, up...)
}

// ExecFiles runs each SQL file as one multi-statement exec
func ExecFiles(ctx context.Context, db *sqlx.DB, paths ...string) error {
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("exec %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func migrationFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
