package objectstore_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/binderhq/binder/objectstore"
)

func testConfig() objectstore.Config {
	return objectstore.Config{
		Bucket:          "binder-test",
		Region:          "us-east-1",
		AccessKeyID:     "AKIATESTKEY",
		SecretAccessKey: "testsecret",
	}
}

func TestNewSigner(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		signer, err := objectstore.NewSigner(testConfig())
		assert.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := testConfig()
		cfg.Bucket = ""
		_, err := objectstore.NewSigner(cfg)
		assert.Error(t, err)
	})

	t.Run("missing region", func(t *testing.T) {
		cfg := testConfig()
		cfg.Region = ""
		_, err := objectstore.NewSigner(cfg)
		assert.Error(t, err)
	})
}

// Presigning is pure computation over the credentials; no network call
// is made, so the resulting URL can be inspected directly.
func TestSigner_Sign(t *testing.T) {
	ctx := context.Background()

	t.Run("issues upload and object URLs", func(t *testing.T) {
		signer, err := objectstore.NewSigner(testConfig())
		assert.NoError(t, err)

		signed, err := signer.Sign(ctx, "uploads/1700000000000-report.pdf", "application/pdf")
		assert.NoError(t, err)

		assert.Contains(t, signed.UploadURL, "uploads/1700000000000-report.pdf")
		assert.Contains(t, signed.UploadURL, "binder-test")
		assert.Contains(t, signed.UploadURL, "X-Amz-Expires=300")
		assert.Contains(t, signed.UploadURL, "X-Amz-Signature=")

		assert.Equal(t, "https://binder-test.s3.us-east-1.amazonaws.com/uploads/1700000000000-report.pdf", signed.ObjectURL)
		assert.Equal(t, 5*time.Minute, signed.ExpiresIn)
	})

	t.Run("custom expiry", func(t *testing.T) {
		cfg := testConfig()
		cfg.UploadExpiry = 90 * time.Second
		signer, err := objectstore.NewSigner(cfg)
		assert.NoError(t, err)

		signed, err := signer.Sign(ctx, "uploads/a.txt", "text/plain")
		assert.NoError(t, err)
		assert.Contains(t, signed.UploadURL, "X-Amz-Expires=90")
		assert.Equal(t, 90*time.Second, signed.ExpiresIn)
	})

	t.Run("public base URL overrides object URL", func(t *testing.T) {
		cfg := testConfig()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		signer, err := objectstore.NewSigner(cfg)
		assert.NoError(t, err)

		signed, err := signer.Sign(ctx, "uploads/a.txt", "text/plain")
		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/uploads/a.txt", signed.ObjectURL)
	})

	t.Run("custom endpoint uses path style", func(t *testing.T) {
		cfg := testConfig()
		cfg.Endpoint = "http://localhost:9000"
		signer, err := objectstore.NewSigner(cfg)
		assert.NoError(t, err)

		signed, err := signer.Sign(ctx, "uploads/a.txt", "text/plain")
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(signed.UploadURL, "http://localhost:9000/binder-test/"), signed.UploadURL)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		signer, err := objectstore.NewSigner(testConfig())
		assert.NoError(t, err)

		_, err = signer.Sign(ctx, "", "text/plain")
		assert.Error(t, err)
	})

	t.Run("empty content type rejected", func(t *testing.T) {
		signer, err := objectstore.NewSigner(testConfig())
		assert.NoError(t, err)

		_, err = signer.Sign(ctx, "uploads/a.txt", "")
		assert.Error(t, err)
	})
}
