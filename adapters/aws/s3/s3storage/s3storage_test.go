package s3storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/storage"
)

type fakeS3 struct {
	objects map[string][]byte
	put     *s3.PutObjectInput
}

func notFound(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "missing"}
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for k, v := range f.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(v)))})
	}
	return out, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.put = in
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, notFound("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, notFound("NotFound")
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store_PutGetExists(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{objects: map[string][]byte{}}
	store := NewS3Store(client, "yusur")

	err := store.Put(ctx, "out/book_extracted.txt", bytes.NewReader([]byte("نص")),
		storage.WithContentType("text/plain; charset=utf-8"),
		storage.WithMetadata(map[string]string{"run-id": "r1"}),
	)
	if err != nil {
		t.Fatalf("Put() unexpected error = %v", err)
	}
	if aws.ToString(client.put.ContentType) != "text/plain; charset=utf-8" || client.put.Metadata["run-id"] != "r1" {
		t.Errorf("Put() input = %+v", client.put)
	}

	ok, err := store.Exists(ctx, "out/book_extracted.txt")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v; want true", ok, err)
	}

	ok, err = store.Exists(ctx, "out/missing.txt")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}

	rc, err := store.Get(ctx, "out/book_extracted.txt")
	if err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "نص" {
		t.Errorf("Get() = %q", data)
	}

	if _, err := store.Get(ctx, "out/missing.txt"); !storage.IsNotFound(err) {
		t.Errorf("Get(missing) error = %v, want NotFound", err)
	}

	objects, err := store.List(ctx, "out/")
	if err != nil || len(objects) != 1 {
		t.Errorf("List() = %v, %v", objects, err)
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]string{
		"NoSuchKey":    storage.ErrCodeNotFound,
		"NotFound":     storage.ErrCodeNotFound,
		"AccessDenied": storage.ErrCodePermissionDenied,
		"SlowDown":     storage.ErrCodeInternal,
	}

	for code, want := range tests {
		if got := classify(notFound(code)); got != want {
			t.Errorf("classify(%s) = %s, want %s", code, got, want)
		}
	}
	if got := classify(io.EOF); got != storage.ErrCodeInternal {
		t.Errorf("classify(non-api error) = %s", got)
	}
}
