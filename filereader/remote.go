package filereader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ferrous-lang/crucible/iox"
)

// S3Config holds configuration for the remote source backend.
type S3Config struct {
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// objectGetter is the slice of the S3 API the source needs.
// Satisfied by *s3.Client; tests substitute a fake.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads import payloads of the form s3://bucket/key.
type S3Source struct {
	client objectGetter
}

// NewS3Source creates a remote source using the AWS SDK default credential
// chain (env vars, shared config, IAM role).
func NewS3Source(cfg S3Config) (*S3Source, error) {
	ctx := context.Background()
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Source{client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

// ParseS3Path splits an s3://bucket/key payload into bucket and key.
func ParseS3Path(path string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %s", path)
	}
	bucket, key, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 path must be s3://bucket/key, got %s", path)
	}
	return bucket, key, nil
}

// Read fetches the object named by an s3://bucket/key payload.
func (s *S3Source) Read(path string) (string, error) {
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return "", err
	}

	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return "", fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer iox.DiscardClose(out.Body)

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return string(content), nil
}

var errNoClient = errors.New("s3 client not configured")

// newS3SourceWithClient wires a source to a caller-provided client.
// Used by tests; NewS3Source is the production constructor.
func newS3SourceWithClient(client objectGetter) (*S3Source, error) {
	if client == nil {
		return nil, errNoClient
	}
	return &S3Source{client: client}, nil
}
