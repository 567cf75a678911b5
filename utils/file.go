package utils

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader saves uploads under Dir; the files are served at
// PublicPrefix by the HTTP server.
type LocalUploader struct {
	Dir          string
	PublicPrefix string
}

// NewLocalUploader creates dir if it doesn't exist.
func NewLocalUploader(dir, publicPrefix string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalUploader{Dir: dir, PublicPrefix: strings.TrimSuffix(publicPrefix, "/")}, nil
}

func (u *LocalUploader) Upload(_ context.Context, fileHeader *multipart.FileHeader, key string) (string, error) {
	if err := SaveFile(fileHeader, filepath.Join(u.Dir, filepath.FromSlash(key))); err != nil {
		return "", err
	}
	return u.PublicPrefix + "/" + key, nil
}

// SaveFile saves the uploaded file to the given destination path
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}
