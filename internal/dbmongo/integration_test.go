//go:build integration

package dbmongo

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mouselab/internal/config"
)

func integrationConfig() *config.Config {
	return &config.Config{
		MongoDB: config.MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USERNAME", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DATABASE", "mouselab_test"),
			Bucket:   "photos_test",
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestMediaStorage_WithRunningMongoDB(t *testing.T) {
	ctx := context.Background()

	client, err := NewMongoConnection(integrationConfig())
	require.NoError(t, err, "ensure MongoDB is running")
	defer client.Close(ctx)

	storage := NewMediaStorage(client, "http://localhost:8080/media/")

	key := fmt.Sprintf("%d.png", time.Now().UnixMilli())

	t.Run("store_and_open", func(t *testing.T) {
		content := "This is test file content for GridFS upload"
		require.NoError(t, storage.Store(ctx, key, "image/png", "pip", strings.NewReader(content)))

		reader, file, err := storage.Open(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
		assert.Equal(t, int64(len(content)), file.Size)
		assert.Equal(t, "pip", file.UploadedBy)
		assert.Equal(t, "image/png", file.MimeType)
	})

	t.Run("same_key_is_refused", func(t *testing.T) {
		err := storage.Store(ctx, key, "image/png", "bob", strings.NewReader("bob-bytes"))
		assert.ErrorIs(t, err, ErrKeyExists)

		reader, file, err := storage.Open(ctx, key)
		require.NoError(t, err)
		defer reader.Close()
		assert.Equal(t, "pip", file.UploadedBy)
	})

	t.Run("open_missing", func(t *testing.T) {
		_, _, err := storage.Open(ctx, "does-not-exist.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
