// Package s3 guarda las imágenes de animales en un bucket S3 compatible
// (AWS S3 o MinIO) y devuelve la URL pública del objeto.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"adopta-api/internal/ports/media"
)

const defaultRegion = "eu-west-1"

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // opcional (MinIO)
	PathStyle bool

	// PublicBaseURL, si se define, reemplaza la URL derivada del bucket (CDN).
	PublicBaseURL string

	// Opcionales; si faltan se usa la cadena de credenciales por defecto.
	AccessKeyID     string
	SecretAccessKey string

	// Solo para tests.
	HTTPClient *http.Client
}

// Store implementa media.Store.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

var _ media.Store = (*Store)(nil)

func New(ctx context.Context, cfg Config) (*Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})

	base, err := publicBase(cfg.PublicBaseURL, endpoint, bucket, region, cfg.PathStyle)
	if err != nil {
		return nil, err
	}

	return &Store{client: client, bucket: bucket, baseURL: base}, nil
}

// Put sube el objeto y devuelve su URL pública.
func (s *Store) Put(ctx context.Context, obj media.Object) (string, error) {
	key := strings.TrimLeft(strings.TrimSpace(obj.Key), "/")
	if key == "" {
		return "", errors.New("object key required")
	}
	if obj.Body == nil {
		return "", errors.New("object body required")
	}

	// El SDK necesita un body con Seek para firmar sobre HTTP plano (MinIO local).
	// Las imágenes ya vienen acotadas por el handler.
	raw, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", fmt.Errorf("read object body: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(raw),
		ContentLength: aws.Int64(int64(len(raw))),
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL arma la URL pública para una key.
func (s *Store) URL(key string) string {
	segs := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segs, "/")
}

func publicBase(public, endpoint, bucket, region string, pathStyle bool) (string, error) {
	if public = strings.TrimRight(strings.TrimSpace(public), "/"); public != "" {
		if _, err := url.ParseRequestURI(public); err != nil {
			return "", fmt.Errorf("invalid media public base url: %w", err)
		}
		return public, nil
	}

	if endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("invalid s3 endpoint %q", endpoint)
		}
		if pathStyle {
			return endpoint + "/" + bucket, nil
		}
		return u.Scheme + "://" + bucket + "." + u.Host, nil
	}

	if pathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", region, bucket), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region), nil
}
