package e2e_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/binderhq/binder"
	"github.com/binderhq/binder/database/sqlite"
	binderhttp "github.com/binderhq/binder/http"
)

// stubSigner issues deterministic upload credentials so the full create
// flow runs without a bucket.
type stubSigner struct{}

func (stubSigner) Sign(_ context.Context, key, contentType string) (binder.SignedUpload, error) {
	return binder.SignedUpload{
		ObjectURL: "https://bucket.example.com/" + key,
		UploadURL: "https://bucket.example.com/" + key + "?X-Amz-Signature=stub&content-type=" + contentType,
	}, nil
}

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// startServer wires the whole stack over an in-memory store and returns
// the base URL of the mounted API.
func startServer(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	tables := binder.Tables{Items: fmt.Sprintf("items_%s", getRandomString(t))}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open database")
	db.SetMaxOpenConns(1)

	require.NoError(t, sqlite.Migrate(ctx, db, tables), "migrate")

	repo, err := sqlite.NewRepo(db, tables)
	require.NoError(t, err, "create repo")

	service := binder.NewItemService(repo, stubSigner{})
	handler := binderhttp.NewHandler(&binderhttp.HandlerConfig{}, service)

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if pingErr := repo.Ping(r.Context()); pingErr != nil {
			binderhttp.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		binderhttp.WriteJSON(w, http.StatusOK, binderhttp.Payload{Success: true, Message: "ok"})
	})
	router.Mount("/api/documents", handler.Router())

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return server.URL
}
