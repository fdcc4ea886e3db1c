package s3source

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/internal/pdftest"
)

type fakeBucket struct {
	objects map[string][]byte
}

func (f *fakeBucket) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(k),
			Size: aws.Int64(int64(len(f.objects[k]))),
			ETag: aws.String(`"etag"`),
		})
	}
	return out, nil
}

func (f *fakeBucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.objects[aws.ToString(in.Key)]))}, nil
}

func TestS3Source_Load(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{
		"guides/one.pdf":        pdftest.Build(1),
		"guides/two.pdf":        pdftest.Build(2),
		"guides/readme.txt":     []byte("skip"),
		"guides/bad.pdf":        []byte("not a pdf"),
		"guides/deep/three.pdf": pdftest.Build(3),
	}}

	tests := []struct {
		name string
		opts []datasource.Option
		want []string
	}{
		{name: "flat", want: []string{"one.pdf", "two.pdf"}},
		{name: "recursive", opts: []datasource.Option{datasource.WithRecursive(true)}, want: []string{"three.pdf", "one.pdf", "two.pdf"}},
		{name: "max items", opts: []datasource.Option{datasource.WithMaxItems(1)}, want: []string{"one.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := NewS3Source(bucket, "yusur", "guides/").Load(context.Background(), tt.opts...)
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}

			var got []string
			for _, d := range docs {
				got = append(got, d.Metadata[datasource.MetaFilename].(string))
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Load() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestS3Source_LoadText(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{"two.pdf": pdftest.Build(2)}}

	docs, err := NewS3Source(bucket, "yusur", "").Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Load() returned %d documents", len(docs))
	}
	if docs[0].Source != "s3://yusur/two.pdf" {
		t.Errorf("Source = %q", docs[0].Source)
	}
	if !strings.Contains(docs[0].Content, "Page 2") {
		t.Errorf("Content = %q", docs[0].Content)
	}
}
