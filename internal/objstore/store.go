// Package objstore stores generated report artifacts behind a small driver
// interface. Keys are sanitized before they reach any backend.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open streams an artifact back; the caller must close the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	SignedURL(ctx context.Context, key string, method string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Config struct {
	Driver         string `json:",default=file"`
	Bucket         string `json:",optional"`
	Region         string `json:",optional"`
	Endpoint       string `json:",optional"`
	AccessKey      string `json:",optional"`
	SecretKey      string `json:",optional"`
	ForcePathStyle bool   `json:",optional"`
	BaseDir        string `json:",default=data/artifacts"`
	SignedURLTTL   time.Duration `json:",default=15m"`
}

// FromEnv builds a Config for CLI tools that run outside the service config.
func FromEnv() Config {
	c := Config{
		Driver:    os.Getenv("STORAGE_DRIVER"),
		Bucket:    os.Getenv("STORAGE_BUCKET"),
		Region:    os.Getenv("STORAGE_REGION"),
		Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		BaseDir:   os.Getenv("STORAGE_BASE_DIR"),
	}
	if v := strings.ToLower(os.Getenv("STORAGE_FORCE_PATH_STYLE")); v == "true" || v == "1" || v == "yes" {
		c.ForcePathStyle = true
	}
	if v := os.Getenv("STORAGE_SIGNED_URL_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SignedURLTTL = d
		}
	}
	return c
}

func Validate(c Config) error {
	switch strings.ToLower(c.Driver) {
	case "s3":
		if c.Bucket == "" {
			return errors.New("bucket required for s3 driver")
		}
		// credentials come from AWS env or IAM; not enforced here
	case "oss":
		if c.Bucket == "" {
			return errors.New("bucket required for oss driver")
		}
		if c.Endpoint == "" {
			return errors.New("endpoint required for oss driver")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return errors.New("access_key/secret_key required for oss driver")
		}
	case "cos":
		if c.Bucket == "" {
			return errors.New("bucket required for cos driver")
		}
		if c.Region == "" && c.Endpoint == "" {
			return errors.New("region or endpoint required for cos driver")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return errors.New("access_key/secret_key required for cos driver")
		}
	case "file", "":
		if c.BaseDir == "" {
			return errors.New("base_dir required for file driver")
		}
		if err := os.MkdirAll(c.BaseDir, 0o755); err != nil {
			return fmt.Errorf("ensure base_dir: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Driver)
	}
	return nil
}

// New opens the configured driver.
func New(ctx context.Context, c Config) (Store, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	switch strings.ToLower(c.Driver) {
	case "file", "":
		return openFile(c)
	case "s3":
		return openS3(ctx, c)
	case "oss":
		return openOSS(ctx, c)
	case "cos":
		return openCOS(ctx, c)
	}
	return nil, fmt.Errorf("unknown storage driver: %s", c.Driver)
}

// sanitizeKey prevents path traversal.
func sanitizeKey(key string) string {
	key = filepath.ToSlash(key)
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}

// buildS3URL constructs a gocloud s3 URL with query params.
func buildS3URL(c Config) string {
	u := url.URL{Scheme: "s3", Host: c.Bucket}
	q := url.Values{}
	if c.Region != "" {
		q.Set("region", c.Region)
	}
	if c.Endpoint != "" {
		q.Set("endpoint", c.Endpoint)
	}
	if c.ForcePathStyle {
		q.Set("s3ForcePathStyle", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
