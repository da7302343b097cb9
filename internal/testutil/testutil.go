// Package testutil provides shared test helpers for config files and database fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/decklearn/internal/config"
	"github.com/at-ishikawa/decklearn/internal/database"
)

// SetupTestConfig creates a config file that keeps the SQLite database under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
  connect_attempts: 1
scheduler:
  desired_retention: 0.9
  learning_steps: [1m, 10m]
  relearning_steps: [10m]
session:
  mode: fsrs
  band: Any
  limit: 20
`,
		filepath.Join(tmpDir, "data", "decklearn.db"),
	)

	cfgPath := filepath.Join(tmpDir, "decklearn.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0o600))
	return cfgPath
}

// NewSQLiteDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test finishes.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "decklearn.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, database.Migrate(db, database.Up))
	return db
}

// CreateDeck inserts an empty deck row.
func CreateDeck(t *testing.T, db *sqlx.DB, id, title string, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec("INSERT INTO decks (id, title, description, creator, card_count, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, title, "", "tester", 0, database.FormatTimestamp(createdAt))
	require.NoError(t, err)
}
