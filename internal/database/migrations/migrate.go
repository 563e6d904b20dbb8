package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed *.sql
var migrationFiles embed.FS

// Apply runs the embedded SQL files in filename order. Every statement
// is written to be re-runnable (IF NOT EXISTS), so Apply is safe to
// call at each boot.
func Apply(ctx context.Context, db *sql.DB) error {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		code, err := migrationFiles.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(code)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		zap.L().Info("migration applied", zap.String("file", name))
	}
	return nil
}
