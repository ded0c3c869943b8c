package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "out/table.csv", "table-abc.csv"},
		{"keiba", "table.parquet", "keiba/table-abc.parquet"},
		{"/keiba/v1/", "/tmp/table.json", "keiba/v1/table-abc.json"},
		{"keiba", "noext", "keiba/noext-abc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ObjectKey(tt.prefix, tt.path, "abc"); got != tt.want {
				t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.prefix, tt.path, got, tt.want)
			}
		})
	}
}

func TestS3Uploader_UploadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte("race_id\n0\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	client := &fakeS3{}
	u := NewS3UploaderWithClient(client, S3Config{Bucket: "races", Prefix: "keiba"})
	u.newID = func() string { return "fixed" }

	key, err := u.UploadFile(context.Background(), path, "text/csv", "v1")
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}

	if key != "keiba/table-fixed.csv" {
		t.Errorf("key = %q", key)
	}
	if aws.ToString(client.input.Bucket) != "races" || aws.ToString(client.input.Key) != key {
		t.Errorf("put %s/%s", aws.ToString(client.input.Bucket), aws.ToString(client.input.Key))
	}
	if aws.ToString(client.input.ContentType) != "text/csv" {
		t.Errorf("content type = %q", aws.ToString(client.input.ContentType))
	}
	if client.input.Metadata["schema-version"] != "v1" {
		t.Errorf("metadata = %v", client.input.Metadata)
	}
	if string(client.body) != "race_id\n0\n" {
		t.Errorf("body = %q", client.body)
	}
}

func TestS3Uploader_Errors(t *testing.T) {
	u := NewS3UploaderWithClient(&fakeS3{}, S3Config{Bucket: "races"})
	if _, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "text/csv", "v1"); err == nil {
		t.Error("UploadFile() expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	boom := errors.New("access denied")
	u = NewS3UploaderWithClient(&fakeS3{err: boom}, S3Config{Bucket: "races"})
	if _, err := u.UploadFile(context.Background(), path, "text/csv", "v1"); !errors.Is(err, boom) {
		t.Errorf("UploadFile() error = %v, want %v", err, boom)
	}

	if _, err := NewS3Uploader(context.Background(), S3Config{}); err == nil {
		t.Error("NewS3Uploader() expected error without a bucket")
	}
}
