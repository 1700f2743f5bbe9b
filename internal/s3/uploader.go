// Package s3 предоставляет функционал для хранения файлов в Amazon S3
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
	MaxRetries int // Отрицательное значение оставляет значение SDK
}

// Uploader обертка для S3 uploader
type Uploader struct {
	s3Uploader *s3manager.Uploader
	s3Client   *s3.S3
	config     *Config
}

// NewUploader создает новый S3 uploader
func NewUploader(config *Config) (*Uploader, error) {
	if config.BucketName == "" {
		return nil, errors.New("не указан бакет S3")
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}
	if config.MaxRetries >= 0 {
		awsConfig.MaxRetries = aws.Int(config.MaxRetries)
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Uploader{
		s3Uploader: s3manager.NewUploader(sess),
		s3Client:   s3.New(sess),
		config:     config,
	}, nil
}

// UploadFile загружает файл в S3
func (u *Uploader) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := u.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	return u.URL(key), nil
}

// DownloadFile записывает объект в w и возвращает число байт
func (u *Uploader) DownloadFile(ctx context.Context, key string, w io.Writer) (int64, error) {
	out, err := u.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка получения файла из S3: %w", err)
	}
	defer out.Body.Close()

	n, err := io.Copy(w, out.Body)
	if err != nil {
		return n, fmt.Errorf("ошибка чтения файла из S3: %w", err)
	}
	return n, nil
}

// URL возвращает адрес объекта
func (u *Uploader) URL(key string) string {
	if u.config.Endpoint == "" {
		return fmt.Sprintf("s3://%s/%s", u.config.BucketName, key)
	}
	return fmt.Sprintf("%s/%s/%s", u.config.Endpoint, u.config.BucketName, key)
}
