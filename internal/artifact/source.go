package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// maxArtifactBytes bounds how much of a remote object is read
const maxArtifactBytes = 64 << 20

// ErrEmptyLocation is returned when no artifact location is configured
var ErrEmptyLocation = errors.New("no model artifact location configured")

// ObjectGetter is the subset of the S3 client the loader needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads artifacts from the local filesystem or S3
type Loader struct {
	region string
	client ObjectGetter
	logger *slog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithRegion sets the AWS region used when building the default S3 client.
func WithRegion(region string) Option {
	return func(l *Loader) { l.region = region }
}

// WithObjectGetter replaces the S3 client.
func WithObjectGetter(client ObjectGetter) Option {
	return func(l *Loader) { l.client = client }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses the artifact at location, either a file path or
// s3://bucket/key.
func (l *Loader) Load(ctx context.Context, location string) (*Artifact, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(location, s3Scheme) {
		data, err = l.readS3(ctx, location)
	} else {
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", location, err)
	}

	a, err := Parse(data)
	if err != nil {
		return nil, err
	}
	l.logger.Info("model artifact loaded",
		"location", location,
		"type", a.Info.Type,
		"features", len(a.Features),
		"scaler", a.Scaler != nil)
	return a, nil
}

func (l *Loader) readS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := splitS3(location)
	if err != nil {
		return nil, err
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(io.LimitReader(out.Body, maxArtifactBytes))
}

func (l *Loader) s3Client(ctx context.Context) (ObjectGetter, error) {
	if l.client != nil {
		return l.client, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if l.region != "" {
		opts = append(opts, awsconfig.WithRegion(l.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	l.client = s3.NewFromConfig(cfg)
	return l.client, nil
}

func splitS3(location string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(location, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 location %q, want s3://bucket/key", location)
	}
	return bucket, key, nil
}
