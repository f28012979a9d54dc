package elfs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mrell3n/elfs"
	elfstest "github.com/mrell3n/elfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath__Basics(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	dirA := elfstest.MakeTestDir(t, fs, "/a")
	dirB := elfstest.MakeTestDir(t, fs, "/a/b")
	fileID := elfstest.MakeTestFile(t, fs, "/a/b/f", []byte("content"))

	root := fs.Superblock().RootInodeID

	cases := map[string]uint32{
		"/":          root,
		"/a":         dirA,
		"/a/":        dirA,
		"/a/b":       dirB,
		"/a/b/f":     fileID,
		"/a//b///f":  fileID,
		"/a/./b/f":   fileID,
		"/a/b/../b":  dirB,
		"/../../a":   dirA,
		"/a/b/../..": root,
	}
	for path, want := range cases {
		path, want := path, want
		t.Run(path, func(t *testing.T) {
			id, err := fs.ResolvePath(path)
			require.NoError(t, err)
			assert.Equal(t, want, id)
		})
	}
}

func TestResolvePath__Relative(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	elfstest.MakeTestDir(t, fs, "/a")
	dirB := elfstest.MakeTestDir(t, fs, "/a/b")
	fileID := elfstest.MakeTestFile(t, fs, "/a/b/f", []byte("x"))

	require.NoError(t, fs.Cd("/a"))

	id, err := fs.ResolvePath("b/f")
	require.NoError(t, err)
	assert.Equal(t, fileID, id)

	id, err = fs.ResolvePath("./b")
	require.NoError(t, err)
	assert.Equal(t, dirB, id)

	id, err = fs.ResolvePath("..")
	require.NoError(t, err)
	assert.Equal(t, fs.Superblock().RootInodeID, id)
}

func TestResolvePath__Errors(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)
	elfstest.MakeTestFile(t, fs, "/f", []byte("x"))

	_, err := fs.ResolvePath("")
	assert.True(t, errors.Is(err, elfs.ErrEmptyPath))

	_, err = fs.ResolvePath("/missing")
	assert.True(t, errors.Is(err, elfs.ErrComponentNotFound))

	_, err = fs.ResolvePath("/f/child")
	assert.True(t, errors.Is(err, elfs.ErrNotADirectory))
}

func TestResolveParentAndName(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)
	dirA := elfstest.MakeTestDir(t, fs, "/a")

	parent, name, err := fs.ResolveParentAndName("/a/newfile")
	require.NoError(t, err)
	assert.Equal(t, dirA, parent)
	assert.Equal(t, "newfile", name)

	// The final component is never resolved, so it may not exist — and a
	// dangling final symlink is returned as-is.
	linkID := elfstest.MakeTestSymlink(t, fs, "/a/ln", "/nowhere")
	parent, name, err = fs.ResolveParentAndName("/a/ln")
	require.NoError(t, err)
	assert.Equal(t, dirA, parent)
	assert.Equal(t, "ln", name)
	_, entry, err := fs.DirFind(rootChild(t, fs, dirA), name)
	require.NoError(t, err)
	assert.Equal(t, linkID, entry.InodeID)
}

func rootChild(t *testing.T, fs *elfs.FileSystem, id uint32) elfs.Inode {
	t.Helper()
	ino, err := fs.ReadInode(id)
	require.NoError(t, err)
	return ino
}

func TestResolvePath__SymlinkChains(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)
	fileID := elfstest.MakeTestFile(t, fs, "/target", []byte("x"))

	// ln1 points at the file; each further link points at the previous one.
	elfstest.MakeTestSymlink(t, fs, "/ln1", "/target")
	for i := 2; i <= elfs.MaxSymlinkDepth+1; i++ {
		elfstest.MakeTestSymlink(t, fs, fmt.Sprintf("/ln%d", i), fmt.Sprintf("/ln%d", i-1))
	}

	t.Run("DepthAtLimit", func(t *testing.T) {
		id, err := fs.ResolvePath(fmt.Sprintf("/ln%d", elfs.MaxSymlinkDepth))
		require.NoError(t, err)
		assert.Equal(t, fileID, id)
	})

	t.Run("DepthBeyondLimit", func(t *testing.T) {
		_, err := fs.ResolvePath(fmt.Sprintf("/ln%d", elfs.MaxSymlinkDepth+1))
		assert.True(t, errors.Is(err, elfs.ErrSymlinkLoop))
	})

	t.Run("Cycle", func(t *testing.T) {
		elfstest.MakeTestSymlink(t, fs, "/loopa", "/loopb")
		elfstest.MakeTestSymlink(t, fs, "/loopb", "/loopa")
		_, err := fs.ResolvePath("/loopa")
		assert.True(t, errors.Is(err, elfs.ErrSymlinkLoop))
	})
}

func TestResolvePath__SymlinkToDirectory(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	elfstest.MakeTestDir(t, fs, "/real")
	fileID := elfstest.MakeTestFile(t, fs, "/real/f", []byte("x"))
	elfstest.MakeTestSymlink(t, fs, "/alias", "/real")

	// Remaining components continue through the dereferenced target.
	id, err := fs.ResolvePath("/alias/f")
	require.NoError(t, err)
	assert.Equal(t, fileID, id)
}

func TestResolvePath__RelativeSymlink(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	elfstest.MakeTestDir(t, fs, "/a")
	fileID := elfstest.MakeTestFile(t, fs, "/a/f", []byte("x"))
	// Relative target resolves from the directory holding the link.
	elfstest.MakeTestSymlink(t, fs, "/a/rel", "f")

	id, err := fs.ResolvePath("/a/rel")
	require.NoError(t, err)
	assert.Equal(t, fileID, id)
}

func TestCdPwd(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	elfstest.MakeTestDir(t, fs, "/a")
	elfstest.MakeTestDir(t, fs, "/a/b")

	assert.Equal(t, "/", fs.Pwd())

	require.NoError(t, fs.Cd("/a/b"))
	assert.Equal(t, "/a/b", fs.Pwd())

	require.NoError(t, fs.Cd(".."))
	assert.Equal(t, "/a", fs.Pwd())

	require.NoError(t, fs.Cd("b/../b/./"))
	assert.Equal(t, "/a/b", fs.Pwd())

	require.NoError(t, fs.Cd("/"))
	assert.Equal(t, "/", fs.Pwd())

	// cd onto a file fails and leaves the working directory alone.
	elfstest.MakeTestFile(t, fs, "/a/f", []byte("x"))
	err := fs.Cd("/a/f")
	assert.True(t, errors.Is(err, elfs.ErrNotADirectory))
	assert.Equal(t, "/", fs.Pwd())
}
