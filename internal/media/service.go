package media

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/konmin123/TopBlogPosts/internal/config"
	"github.com/konmin123/TopBlogPosts/internal/db"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the bucket operation Store needs; the MinIO client
// satisfies it in production, tests substitute a fake.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

type Service struct {
	db      db.Querier
	store   ObjectStore
	baseURL string
}

func NewService(q db.Querier, store ObjectStore, baseURL string) *Service {
	return &Service{db: q, store: store, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Store uploads an image under a fresh key, records an audit row and
// returns the public URL to persist on the post.
func (s *Service) Store(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	key := uuid.NewString() + path.Ext(filename)
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return "", err
	}

	url := s.baseURL + "/" + key
	_, err := s.db.Exec(ctx, `
		INSERT INTO media_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, url, "image")
	if err != nil {
		return "", err
	}
	return url, nil
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg config.Config) (ObjectStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (m *minioStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// PublicURL is the browser-reachable base for stored objects.
func PublicURL(cfg config.Config) string {
	scheme := "http://"
	if cfg.MinioUseSSL {
		scheme = "https://"
	}
	return scheme + cfg.MinioEndpoint + "/" + cfg.MinioBucket
}
