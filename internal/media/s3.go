package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/fundloop/fundloop/internal/config"
	"github.com/google/uuid"
)

const emptyAWSSessionToken = ""

// S3Host stores media in an S3 bucket. Resource ids are object keys.
type S3Host struct {
	svc      s3iface.S3API
	uploader s3manageriface.UploaderAPI
	bucket   string
}

// NewS3Host creates an S3 media host from configuration
func NewS3Host(cfg config.MediaConfig) (*S3Host, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media.bucket is required for the s3 media host")
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, emptyAWSSessionToken)
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc := s3.New(sess)
	slog.Info("Initialized S3 media host", "bucket", cfg.Bucket, "region", cfg.Region)
	return &S3Host{
		svc:      svc,
		uploader: s3manager.NewUploaderWithClient(svc),
		bucket:   cfg.Bucket,
	}, nil
}

// Upload streams r to a new object under opts.Folder
func (h *S3Host) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Resource, error) {
	key := objectKey(opts.Folder, uuid.NewString()+strings.ToLower(path.Ext(opts.Filename)))

	input := &s3manager.UploadInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	if _, err := h.uploader.UploadWithContext(ctx, input); err != nil {
		return Resource{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return Resource{ID: key, Type: Classify(opts.ContentType)}, nil
}

// Delete removes the object with key id
func (h *S3Host) Delete(ctx context.Context, id string) error {
	_, err := h.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func objectKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
