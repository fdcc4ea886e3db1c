// Package s3storage publishes extraction outputs to an S3 bucket.
package s3storage

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/storage"
)

// ObjectAPI is the subset of *s3.Client used by S3Store
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3Store struct {
	client ObjectAPI
	bucket string
}

func NewS3Store(client ObjectAPI, bucket string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
	}
}

func (s *S3Store) Put(ctx context.Context, key string, data io.Reader, options ...storage.PutOption) error {
	opts := storage.NewPutOptions(options...)

	input := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		Body:     data,
		Metadata: opts.Metadata,
	}

	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}

	if opts.ContentDisposition != "" {
		input.ContentDisposition = aws.String(opts.ContentDisposition)
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return storage.NewStorageError("Put", key, err, classify(err), "failed to put object")
	}

	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		code := classify(err)
		msg := "failed to get object"
		if code == storage.ErrCodeNotFound {
			msg = "object not found"
		}
		return nil, storage.NewStorageError("Get", key, err, code, msg)
	}

	return result.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	_, err := s.client.DeleteObject(ctx, input)
	if err != nil {
		return storage.NewStorageError("Delete", key, err, classify(err), "failed to delete object")
	}

	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}

	var objects []storage.ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.NewStorageError("List", prefix, err, classify(err), "failed to list objects")
		}

		for _, obj := range page.Contents {
			objects = append(objects, storage.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         aws.ToString(obj.ETag),
			})
		}
	}

	return objects, nil
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	_, err := s.client.HeadObject(ctx, input)
	if err != nil {
		if classify(err) == storage.ErrCodeNotFound {
			return false, nil
		}
		return false, storage.NewStorageError("Exists", key, err, storage.ErrCodeInternal, "failed to check object existence")
	}

	return true, nil
}

// classify maps S3 API error codes onto storage error codes. HeadObject
// reports a missing key as NotFound while GetObject uses NoSuchKey.
func classify(err error) string {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return storage.ErrCodeInternal
	}

	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return storage.ErrCodeNotFound
	case "AccessDenied", "Forbidden":
		return storage.ErrCodePermissionDenied
	case "InvalidArgument", "InvalidObjectName", "KeyTooLongError":
		return storage.ErrCodeInvalidArgument
	default:
		return storage.ErrCodeInternal
	}
}
