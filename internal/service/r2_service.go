package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/postbatch/configs"
	"github.com/maheshrc27/postbatch/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// objectPutter is the part of the S3 client the uploader needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Service stores media in a Cloudflare R2 bucket and serves it from
// the bucket's public URL.
type R2Service struct {
	config cfg.R2
	client objectPutter
}

func NewR2Service(ctx context.Context, r2 cfg.R2) (*R2Service, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return &R2Service{config: r2, client: client}, nil
}

func (r *R2Service) UploadToR2(ctx context.Context, key string, file []byte, filetype string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(filetype),
	}

	_, err := r.client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// Upload implements MediaUploader.
func (r *R2Service) Upload(ctx context.Context, f models.UploadFile) (*models.UploadResult, error) {
	data, err := base64.StdEncoding.DecodeString(f.Data)
	if err != nil {
		return nil, fmt.Errorf("decode upload %s: %w", f.Name, err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	key := id + strings.ToLower(filepath.Ext(f.Name))

	if err := r.UploadToR2(ctx, key, data, f.MimeType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", f.Name, err)
	}

	kind := models.MediaTypeImage
	if strings.HasPrefix(f.MimeType, "video") {
		kind = models.MediaTypeVideo
	}
	return &models.UploadResult{
		URL:  strings.TrimRight(r.config.PublicURL, "/") + "/" + key,
		Type: kind,
	}, nil
}
