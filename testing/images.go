package testing

import (
	"io"
	"testing"

	"github.com/mrell3n/elfs"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateBlankImage returns an in-memory read-write stream of `size` bytes,
// all zero. The stream has a fixed size; writes past the end fail.
func CreateBlankImage(t *testing.T, size uint64) io.ReadWriteSeeker {
	t.Helper()
	return bytesextra.NewReadWriteSeeker(make([]byte, size))
}

// CreateFormattedImage formats a fresh in-memory image of `size` bytes and
// returns the mounted filesystem together with its backing stream.
func CreateFormattedImage(t *testing.T, size uint64) (*elfs.FileSystem, io.ReadWriteSeeker) {
	t.Helper()

	stream := CreateBlankImage(t, size)
	fs, err := elfs.Format(stream, size, elfs.DefaultBytesPerInode)
	require.NoError(t, err, "formatting a blank image must succeed")
	return fs, stream
}

// MakeTestDir creates an empty directory at `path`.
func MakeTestDir(t *testing.T, fs *elfs.FileSystem, path string) uint32 {
	t.Helper()

	parentID, name, err := fs.ResolveParentAndName(path)
	require.NoError(t, err)
	parent, err := fs.ReadInode(parentID)
	require.NoError(t, err)

	id, err := fs.AllocInode()
	require.NoError(t, err)
	require.NoError(t, fs.WriteInode(id, elfs.Inode{
		ID:        id,
		FileType:  elfs.TypeDirectory,
		LinkCount: 1,
	}))
	require.NoError(t, fs.DirAddEntry(&parent, name, id))
	return id
}

// MakeTestSymlink creates a symlink at `path` storing `target` verbatim.
func MakeTestSymlink(t *testing.T, fs *elfs.FileSystem, path, target string) uint32 {
	t.Helper()

	parentID, name, err := fs.ResolveParentAndName(path)
	require.NoError(t, err)
	parent, err := fs.ReadInode(parentID)
	require.NoError(t, err)

	id, err := fs.AllocInode()
	require.NoError(t, err)

	ino := elfs.Inode{ID: id, FileType: elfs.TypeSymlink, LinkCount: 1}
	require.NoError(t, fs.WriteInode(id, ino))
	require.NoError(t, fs.WriteFileRange(&ino, 0, []byte(target)))
	require.NoError(t, fs.DirAddEntry(&parent, name, id))
	return id
}

// MakeTestFile creates a regular file at `path` holding `content`.
func MakeTestFile(t *testing.T, fs *elfs.FileSystem, path string, content []byte) uint32 {
	t.Helper()

	parentID, name, err := fs.ResolveParentAndName(path)
	require.NoError(t, err)
	parent, err := fs.ReadInode(parentID)
	require.NoError(t, err)

	id, err := fs.AllocInode()
	require.NoError(t, err)

	ino := elfs.Inode{ID: id, FileType: elfs.TypeFile, LinkCount: 1}
	require.NoError(t, fs.WriteInode(id, ino))
	if len(content) > 0 {
		require.NoError(t, fs.WriteFileRange(&ino, 0, content))
	}
	require.NoError(t, fs.DirAddEntry(&parent, name, id))
	return id
}
