package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/config"
)

func TestNewNoneDisablesStorage(t *testing.T) {
	store, err := New(context.Background(), &config.Config{StorageDriver: "none"})
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.EqualError(t, err, "S3_BUCKET is required")
}

func TestAttachmentKeepsFileName(t *testing.T) {
	assert.Equal(t, "attachment", attachment(""))
	assert.Equal(t, `attachment; filename=report.pdf`, attachment("report.pdf"))
	assert.Contains(t, attachment("血液 报告.pdf"), "filename*=utf-8''")
}
