package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root, LocalURLPrefix)
	require.NoError(t, err)

	key := "case_images/7/3.png"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("png-bytes")))

	data, err := os.ReadFile(filepath.Join(root, "case_images", "7", "3.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	url, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/media/case_images/7/3.png", url)

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "case_images", "7", "3.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), LocalURLPrefix)
	require.NoError(t, err)

	err = s.Save(context.Background(), "../outside.png", strings.NewReader("x"))
	assert.Error(t, err)
}
