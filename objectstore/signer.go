// Package objectstore issues presigned upload credentials against an
// S3-compatible bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/binderhq/binder"
)

// DefaultUploadExpiry is how long an issued upload credential stays valid.
const DefaultUploadExpiry = 5 * time.Minute

// Config is validated by NewSigner rather than struct tags so a
// database-only deployment can load config without S3 credentials.
type Config struct {
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	Endpoint        string        `mapstructure:"endpoint"`
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	UploadExpiry    time.Duration `mapstructure:"upload_expiry"`
}

// Signer presigns PUT requests so clients upload bytes directly to the
// bucket; the server never relays file content.
type Signer struct {
	presign       *s3.PresignClient
	bucket        string
	region        string
	publicBaseURL string
	expiry        time.Duration
}

var _ binder.UploadSigner = (*Signer)(nil)

func NewSigner(cfg Config) (*Signer, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("new signer: bucket is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("new signer: region is required")
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.UploadExpiry
	if expiry <= 0 {
		expiry = DefaultUploadExpiry
	}

	return &Signer{
		presign:       s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		expiry:        expiry,
	}, nil
}

// Sign issues a presigned PUT credential for the given object key. The
// upload URL expires; the object URL is the permanent public location
// and is what gets persisted alongside the item.
func (s *Signer) Sign(ctx context.Context, key, contentType string) (binder.SignedUpload, error) {
	if key == "" {
		return binder.SignedUpload{}, errors.New("sign: key is required")
	}
	if contentType == "" {
		return binder.SignedUpload{}, errors.New("sign: content type is required")
	}

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return binder.SignedUpload{}, fmt.Errorf("sign: presign put object: %w", err)
	}

	return binder.SignedUpload{
		ObjectURL: s.objectURL(key),
		UploadURL: req.URL,
		ExpiresIn: s.expiry,
	}, nil
}

// objectURL is the stable public address of the object once uploaded.
func (s *Signer) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
