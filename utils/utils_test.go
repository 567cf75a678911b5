package utils

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// formFile builds a *multipart.FileHeader the way a server would see it.
func formFile(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestLocalUploaderSavesUnderDir(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(filepath.Join(dir, "uploads"), "/uploads/")
	if err != nil {
		t.Fatalf("new uploader: %v", err)
	}

	fh := formFile(t, "video", "clip.mp4", "video/mp4", []byte("frames"))
	url, err := u.Upload(context.Background(), fh, "videos/abc.mp4")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "/uploads/videos/abc.mp4" {
		t.Fatalf("unexpected url %q", url)
	}
	got, err := os.ReadFile(filepath.Join(dir, "uploads", "videos", "abc.mp4"))
	if err != nil || string(got) != "frames" {
		t.Fatalf("unexpected saved file %q (%v)", got, err)
	}
}

type recordingPutter struct {
	input *s3.PutObjectInput
	body  []byte
}

func (p *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = in
	p.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestR2UploaderPutsObject(t *testing.T) {
	putter := &recordingPutter{}
	u := &R2Uploader{Client: putter, Bucket: "clips", CDNBaseURL: "https://cdn.example"}

	fh := formFile(t, "video", "clip.webm", "video/webm", []byte("frames"))
	url, err := u.Upload(context.Background(), fh, "videos/xyz.webm")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example/videos/xyz.webm" {
		t.Fatalf("unexpected url %q", url)
	}
	if aws.ToString(putter.input.Bucket) != "clips" || aws.ToString(putter.input.Key) != "videos/xyz.webm" {
		t.Fatalf("unexpected put input %+v", putter.input)
	}
	if aws.ToString(putter.input.ContentType) != "video/webm" || string(putter.body) != "frames" {
		t.Fatalf("unexpected content %q %q", aws.ToString(putter.input.ContentType), putter.body)
	}
}
