package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/config"
	"github.com/hazadus/worship/internal/s3"
	"github.com/hazadus/worship/internal/uploader"
	"github.com/hazadus/worship/internal/utils"
)

var errBackupNotConfigured = errors.New("не настроено хранилище S3: заполните backup.aws_bucket_name, backup.aws_access_key и backup.aws_secret_key")

// createBackupCommand создает команды резервного копирования библиотеки
func (app *Application) createBackupCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the library to S3 storage",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the library file to S3",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.backupPush(ctx)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Replace the library file with the copy from S3",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.backupPull(ctx)
		},
	})

	return cmd
}

func (app *Application) backupService() (*uploader.Service, error) {
	backup := app.Config.Backup
	if !backup.Configured() {
		return nil, errBackupNotConfigured
	}

	s3Uploader, err := s3.NewUploader(&s3.Config{
		Region:     backup.AwsRegion,
		AccessKey:  backup.AwsAccessKey,
		SecretKey:  backup.AwsSecretKey,
		Endpoint:   backup.AwsEndpoint,
		BucketName: backup.AwsBucketName,
		MaxRetries: -1,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}
	return uploader.NewService(s3Uploader, backup.Key), nil
}

func (app *Application) backupPush(ctx context.Context) error {
	service, err := app.backupService()
	if err != nil {
		return err
	}

	path := app.Config.Library.Path
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", uploader.ErrLibraryNotFound, path)
	}

	fmt.Printf("📤 Загружаем библиотеку в S3:\n")
	fmt.Printf("   Файл: %s\n", path)
	fmt.Printf("   Размер: %s\n", utils.FormatFileSize(info.Size()))
	fmt.Printf("   Бакет: %s\n", app.Config.Backup.AwsBucketName)
	fmt.Printf("   Ключ: %s\n", service.Key(path))
	fmt.Println()

	started := time.Now()
	result, err := service.Backup(ctx, path, func(read int64) {
		displayTransfer(read, info.Size(), started)
	})
	if err != nil {
		fmt.Printf("\n❌ Ошибка загрузки: %v\n", err)
		return err
	}

	fmt.Printf("\n✅ Библиотека успешно загружена в S3!\n")
	fmt.Printf("   URL: %s\n", result.URL)
	fmt.Printf("   Время: %s\n", result.Elapsed.Round(time.Millisecond))
	return nil
}

func (app *Application) backupPull(ctx context.Context) error {
	service, err := app.backupService()
	if err != nil {
		return err
	}

	// База данных закрывается до замены файла
	if app.Config.Library.Driver == config.DriverSQLite {
		app.closeStore()
	}

	path := app.Config.Library.Path
	fmt.Printf("📥 Восстанавливаем библиотеку из S3:\n")
	fmt.Printf("   Бакет: %s\n", app.Config.Backup.AwsBucketName)
	fmt.Printf("   Ключ: %s\n", service.Key(path))
	fmt.Printf("   Файл: %s\n", path)
	fmt.Println()

	started := time.Now()
	result, err := service.Restore(ctx, path, func(written int64) {
		displayTransfer(written, 0, started)
	})
	if err != nil {
		fmt.Printf("\n❌ Ошибка восстановления: %v\n", err)
		return err
	}

	fmt.Printf("\n✅ Библиотека восстановлена: %s\n", utils.FormatFileSize(result.Size))
	return nil
}

// displayTransfer отображает прогресс передачи. total равен 0, если размер неизвестен.
func displayTransfer(done, total int64, started time.Time) {
	elapsed := time.Since(started)
	speed := float64(done)
	if elapsed > 0 {
		speed = float64(done) / elapsed.Seconds()
	}

	if total <= 0 {
		fmt.Printf("\r📊 Получено: %s | Скорость: %s/s",
			utils.FormatFileSize(done), utils.FormatFileSize(int64(speed)))
		return
	}

	percent := float64(done) / float64(total) * 100
	fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s",
		percent, utils.FormatFileSize(int64(speed)), elapsed.Round(time.Second))
}
