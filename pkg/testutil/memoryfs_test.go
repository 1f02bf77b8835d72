// pkg/testutil/memoryfs_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test MemoryFS implementation

package testutil_test

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/arthur-debert/fgroup/pkg/testutil"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ types.FS = (*testutil.MemoryFS)(nil)

func TestMemoryFS_BasicOperations(t *testing.T) {
	mfs := testutil.NewMemoryFS()

	t.Run("write_and_read", func(t *testing.T) {
		require.NoError(t, mfs.WriteFile("/deep/test.txt", []byte("test content"), 0644))

		read, err := mfs.ReadFile("/deep/test.txt")
		require.NoError(t, err)
		assert.Equal(t, "test content", string(read))

		info, err := mfs.Stat("/deep")
		require.NoError(t, err)
		assert.True(t, info.IsDir(), "parents are created")
	})

	t.Run("mkdir_all", func(t *testing.T) {
		require.NoError(t, mfs.MkdirAll("/path/to/dir", 0755))

		info, err := mfs.Stat("/path/to/dir")
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		assert.Error(t, mfs.MkdirAll("/deep/test.txt/x", 0755))
	})

	t.Run("read_dir_is_sorted", func(t *testing.T) {
		mfs.AddTree("/sorted", "c", "a/", "b")

		entries, err := mfs.ReadDir("/sorted")
		require.NoError(t, err)

		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.Equal(t, []string{"a", "b", "c"}, names)
		assert.True(t, entries[0].IsDir())
		assert.Positive(t, mfs.ReadDirCount())
	})

	t.Run("missing_path", func(t *testing.T) {
		_, err := mfs.Stat("/nope")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestMemoryFS_Symlinks(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	mfs.AddTree("/r", "target/", "target/file.txt")
	require.NoError(t, mfs.Symlink("target", "/r/rel"))
	require.NoError(t, mfs.Symlink("/r/missing", "/r/broken"))
	require.NoError(t, mfs.Symlink("/r/loop", "/r/loop2"))
	require.NoError(t, mfs.Symlink("/r/loop2", "/r/loop"))

	t.Run("lstat_reports_link", func(t *testing.T) {
		info, err := mfs.Lstat("/r/rel")
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		assert.False(t, info.IsDir())
	})

	t.Run("stat_follows_relative_link", func(t *testing.T) {
		info, err := mfs.Stat("/r/rel")
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := mfs.ReadDir("/r/rel")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "file.txt", entries[0].Name())
	})

	t.Run("broken_link", func(t *testing.T) {
		_, err := mfs.Stat("/r/broken")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("link_loop", func(t *testing.T) {
		_, err := mfs.Stat("/r/loop")
		assert.Error(t, err)
	})

	t.Run("existing_link_rejected", func(t *testing.T) {
		assert.Error(t, mfs.Symlink("x", "/r/rel"))
	})
}

func TestMemoryFS_ErrorInjection(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	mfs.AddTree("/r", "locked/", "locked/secret")
	mfs.WithError("/r/locked", fs.ErrPermission)

	_, err := mfs.ReadDir("/r/locked")
	assert.True(t, errors.Is(err, fs.ErrPermission))

	entries, err := mfs.ReadDir("/r")
	require.NoError(t, err)
	require.Len(t, entries, 1, "the parent still lists the entry")

	assert.ErrorIs(t, mfs.WriteFile("/r/locked", nil, 0644), fs.ErrPermission)
}
