package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"

	"github.com/binderhq/binder"
	"github.com/binderhq/binder/database/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestRepo creates a repo backed by an in-memory database with a
// unique table name for test isolation.
func setupTestRepo(t *testing.T) (*sqlite.Repo, func()) {
	t.Helper()

	ctx := context.Background()

	tableName := fmt.Sprintf("items_%s", getRandomString(t))
	tables := binder.Tables{Items: tableName}

	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err, "failed to open database")

	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema.
	db.SetMaxOpenConns(1)

	err = sqlite.Migrate(ctx, db, tables)
	assert.NoError(t, err, "failed to migrate")

	repo, err := sqlite.NewRepo(db, tables)
	assert.NoError(t, err, "failed to create repo")

	cleanup := func() {
		_ = db.Close()
	}

	return repo, cleanup
}

func insertTestItem(t *testing.T, repo *sqlite.Repo, item binder.NewItem) binder.Item {
	t.Helper()

	created, err := repo.Insert(context.Background(), item)
	assert.NoError(t, err, "insert test item")
	return created
}

func ptrInt64(v int64) *int64       { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
