package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStore struct {
	*cloudinary.Cloudinary
}

func (cld *CloudinaryStore) UploadFile(ctx context.Context, file []byte, filename string, folder string) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder:         folder,
		PublicID:       strings.TrimSuffix(filename, filepath.Ext(filename)),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(true),
	}
	
	reader := bytes.NewReader(file)
	result, err := cld.Upload.Upload(ctx, reader, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to cloudinary: %w", err)
	}
	
	return result.SecureURL, nil
}

func NewCloudinaryStore(url string) (FileStore, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary store: %w", err)
	}
	
	cld.Config.URL.Secure = true
	
	return &CloudinaryStore{cld}, nil
}
