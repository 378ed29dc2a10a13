package objstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	cos "github.com/tencentyun/cos-go-sdk-v5"
)

type cosStore struct {
	cli       *cos.Client
	secretID  string
	secretKey string
	ttl       time.Duration
}

func openCOS(_ context.Context, c Config) (Store, error) {
	raw := c.Endpoint
	if raw == "" {
		raw = fmt.Sprintf("https://%s.cos.%s.myqcloud.com", c.Bucket, c.Region)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	cli := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{SecretID: c.AccessKey, SecretKey: c.SecretKey},
	})
	ttl := c.SignedURLTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &cosStore{cli: cli, secretID: c.AccessKey, secretKey: c.SecretKey, ttl: ttl}, nil
}

func (s *cosStore) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	var opt *cos.ObjectPutOptions
	if contentType != "" {
		opt = &cos.ObjectPutOptions{
			ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
		}
	}
	_, err := s.cli.Object.Put(ctx, sanitizeKey(key), r, opt)
	return err
}

func (s *cosStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.cli.Object.Get(ctx, sanitizeKey(key), nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *cosStore) SignedURL(ctx context.Context, key string, method string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.ttl
	}
	if method == "" {
		method = http.MethodGet
	}
	u, err := s.cli.Object.GetPresignedURL(ctx, method, sanitizeKey(key), s.secretID, s.secretKey, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *cosStore) Delete(ctx context.Context, key string) error {
	_, err := s.cli.Object.Delete(ctx, sanitizeKey(key))
	return err
}
