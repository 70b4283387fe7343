package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"ffl-directory/core/config"
	"ffl-directory/core/storage"
	"ffl-directory/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRuntime(client storage.Client) *runtime {
	return &runtime{
		cfg:     &config.Config{Storage: storage.Config{Bucket: "ffl"}},
		storage: client,
	}
}

func TestOpenSource_Object(t *testing.T) {
	syncObject = "uploads/0125.csv"
	t.Cleanup(func() { syncObject = "" })

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "ffl", "uploads/0125.csv", minio.GetObjectOptions{}).
		Return(mocks.Object("License Number\n"), nil)

	name, body, err := openSource(context.Background(), testRuntime(client), nil)
	require.NoError(t, err)
	defer body.Close()

	data, _ := io.ReadAll(body)
	assert.Equal(t, "uploads/0125.csv", name)
	assert.Equal(t, "License Number\n", string(data))
	client.AssertExpectations(t)
}

func TestOpenSource_ObjectMissing(t *testing.T) {
	syncObject = "uploads/missing.csv"
	t.Cleanup(func() { syncObject = "" })

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "ffl", "uploads/missing.csv", mock.Anything).
		Return(nil, errors.New("no such key"))

	_, _, err := openSource(context.Background(), testRuntime(client), nil)
	assert.ErrorContains(t, err, "uploads/missing.csv")
}

func TestOpenSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekly.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	name, body, err := openSource(context.Background(), testRuntime(nil), []string{path})
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "weekly.xlsx", name)

	_, _, err = openSource(context.Background(), testRuntime(nil), []string{filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, err)
}

func TestSyncArgs(t *testing.T) {
	t.Cleanup(func() { syncObject = "" })

	assert.Error(t, syncCmd.Args(syncCmd, nil))
	assert.NoError(t, syncCmd.Args(syncCmd, []string{"list.csv"}))

	syncObject = "uploads/list.csv"
	assert.NoError(t, syncCmd.Args(syncCmd, nil))
	assert.Error(t, syncCmd.Args(syncCmd, []string{"list.csv"}))
}
