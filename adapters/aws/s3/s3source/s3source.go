// Package s3source loads the text of PDF objects stored under an S3 prefix.
package s3source

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

// ObjectAPI is the subset of *s3.Client used by S3Source
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Source struct {
	client ObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

func NewS3Source(client ObjectAPI, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: slog.Default().With("component", "s3source", "bucket", bucket),
	}
}

// Load lists the .pdf keys under the prefix in S3 key order and extracts
// their text. Objects that are not parseable PDFs are logged and skipped.
func (s *S3Source) Load(ctx context.Context, opts ...datasource.Option) ([]datasource.Document, error) {
	options := datasource.NewLoadOptions(opts...)

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}

	var documents []datasource.Document
	paginator := s3.NewListObjectsV2Paginator(s.client, input)

	for paginator.HasMorePages() {
		if options.Full(len(documents)) {
			break
		}

		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &datasource.DataSourceError{
				Source:  "s3",
				Op:      "Load",
				Err:     err,
				Code:    datasource.ErrCodeInternal,
				Message: "failed to list objects",
			}
		}

		for _, obj := range page.Contents {
			if options.Full(len(documents)) {
				break
			}

			key := aws.ToString(obj.Key)
			if !datasource.IsPDF(key) {
				continue
			}
			if !options.Recursive && strings.Contains(strings.TrimPrefix(key, s.prefix), "/") {
				continue
			}

			metadata := map[string]interface{}{
				datasource.MetaSource:       "s3://" + s.bucket + "/" + key,
				datasource.MetaFilename:     key[strings.LastIndex(key, "/")+1:],
				datasource.MetaSize:         aws.ToInt64(obj.Size),
				datasource.MetaLastModified: aws.ToTime(obj.LastModified),
				"etag":                      aws.ToString(obj.ETag),
			}

			if !options.Accept(metadata) {
				continue
			}

			data, err := s.getObjectContent(ctx, key)
			if err != nil {
				return nil, err
			}

			text, pages, err := pdf.ExtractTextBytes(data)
			if err != nil {
				s.logger.Warn("skipping unreadable pdf", "key", key, "error", err)
				continue
			}
			metadata[datasource.MetaPages] = pages

			documents = append(documents, datasource.Document{
				Content:  text,
				Metadata: metadata,
				Source:   "s3://" + s.bucket + "/" + key,
			})
		}
	}

	return documents, nil
}

func (s *S3Source) getObjectContent(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, &datasource.DataSourceError{
			Source:  "s3",
			Op:      "getObjectContent",
			Err:     err,
			Code:    datasource.ErrCodeInternal,
			Message: "failed to get object " + key,
		}
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, &datasource.DataSourceError{
			Source:  "s3",
			Op:      "getObjectContent",
			Err:     err,
			Code:    datasource.ErrCodeInternal,
			Message: "failed to read object " + key,
		}
	}

	return content, nil
}
