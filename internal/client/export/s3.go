package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/covyhq/covy/internal/client/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

const defaultLinkExpiry = 15 * time.Minute

type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string // set for MinIO and other S3-compatible stores
	AccessKey    string
	SecretKey    string
	LinkExpiry   time.Duration
}

// S3Exporter uploads letters to a bucket and returns a presigned download
// link.
type S3Exporter struct {
	cfg S3Config
}

func NewS3Exporter(cfg S3Config) *S3Exporter {
	if cfg.LinkExpiry <= 0 {
		cfg.LinkExpiry = defaultLinkExpiry
	}
	return &S3Exporter{cfg: cfg}
}

// ObjectKey places a letter under cover-letters/USER/YYYY/MM/DD/.
func ObjectKey(letter models.CoverLetter, at time.Time) string {
	name := strings.TrimSuffix(FileName(letter), ".txt")
	return fmt.Sprintf("cover-letters/%d/%s/%s-%s.txt", letter.UserID, at.UTC().Format("2006/01/02"), name, uuid.NewString())
}

func (e *S3Exporter) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(e.cfg.Region)}
	if e.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(e.cfg.AccessKey, e.cfg.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (e *S3Exporter) Export(ctx context.Context, letter models.CoverLetter) (string, error) {
	if letter.Content == "" {
		return "", ErrEmptyLetter
	}

	c, err := e.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := e.cfg.Bucket
	key := ObjectKey(letter, now())

	_, err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        strings.NewReader(letter.Content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	req, err := presignGetObject(newS3PresignClient(c), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(e.cfg.LinkExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return req.URL, nil
}
