// Package publish uploads exported reports to S3 or an S3-compatible store.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/dirsheet/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// ErrInvalidURI is returned for destinations that are not s3://bucket[/key]
var ErrInvalidURI = errors.New("invalid s3 uri")

// PutObjectAPI is the subset of the S3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is a parsed upload destination
type Location struct {
	Bucket string
	Key    string
}

// String returns the location as an s3:// URI
func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// UploadError is returned when the store rejects an upload
type UploadError struct {
	Location Location
	Code     string // service error code, empty for transport errors
	Err      error
}

func (e *UploadError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("failed to upload to %s (%s): %v", e.Location, e.Code, e.Err)
	}
	return fmt.Sprintf("failed to upload to %s: %v", e.Location, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ParseS3URI parses s3://bucket/key. A key that is empty or ends in "/" is a
// prefix; the local file name is appended at upload time.
func ParseS3URI(uri string) (Location, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return Location{
		Bucket: u.Host,
		Key:    strings.TrimPrefix(u.Path, "/"),
	}, nil
}

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".md":   "text/markdown",
}

func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Uploader puts local files into a bucket
type Uploader struct {
	client  PutObjectAPI
	timeout time.Duration
	logger  *zap.Logger
}

// NewUploader wraps an existing client
func NewUploader(client PutObjectAPI, timeout time.Duration, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// NewS3Uploader builds an uploader from the default AWS credential chain
func NewS3Uploader(ctx context.Context, cfg config.UploadConfig, logger *zap.Logger) (*Uploader, error) {
	var opts []func(*awsConfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.Region))
	}

	sdkConfig, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewUploader(client, time.Duration(cfg.Timeout)*time.Second, logger), nil
}

// Upload sends the file at localPath to uri and returns the final location
func (u *Uploader) Upload(ctx context.Context, localPath, uri string) (Location, error) {
	loc, err := ParseS3URI(uri)
	if err != nil {
		return Location{}, err
	}
	if loc.Key == "" || strings.HasSuffix(loc.Key, "/") {
		loc.Key = path.Join(loc.Key, filepath.Base(localPath))
	}

	f, err := os.Open(localPath)
	if err != nil {
		return loc, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return loc, fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	u.logger.Info("Uploading report",
		zap.String("file", localPath),
		zap.String("destination", loc.String()),
		zap.Int64("size", info.Size()))

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(localPath)),
	})
	if err != nil {
		uploadErr := &UploadError{Location: loc, Err: err}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			uploadErr.Code = apiErr.ErrorCode()
		}
		return loc, uploadErr
	}

	return loc, nil
}
