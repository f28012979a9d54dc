package elfs_test

import (
	"testing"

	"github.com/mrell3n/elfs"
	elfstest "github.com/mrell3n/elfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat__TracksUsage(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	before, err := fs.Stat()
	require.NoError(t, err)

	elfstest.MakeTestDir(t, fs, "/d")
	elfstest.MakeTestFile(t, fs, "/d/f", make([]byte, 2*elfs.BlockSize))

	after, err := fs.Stat()
	require.NoError(t, err)

	assert.Equal(t, before.UsedInodes+2, after.UsedInodes)
	assert.Equal(t, before.Directories+1, after.Directories)
	assert.Greater(t, after.UsedBlocks, before.UsedBlocks)
	assert.Equal(t, after.TotalBlocks, after.UsedBlocks+after.FreeBlocks)
}

func TestCountSoftLinks(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	fileID := elfstest.MakeTestFile(t, fs, "/f", []byte("data"))

	count, err := fs.CountSoftLinks(fileID)
	require.NoError(t, err)
	assert.Zero(t, count)

	elfstest.MakeTestSymlink(t, fs, "/ln1", "/f")
	elfstest.MakeTestSymlink(t, fs, "/ln2", "/f")
	elfstest.MakeTestSymlink(t, fs, "/dangling", "/nowhere")

	count, err = fs.CountSoftLinks(fileID)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only links resolving to the inode count")
}

// mkdir followed by rmdir must restore the bitmap and inode table; only a
// tombstone in the parent directory remains.
func TestMkdirRmdir__RestoresState(t *testing.T) {
	fs, _ := elfstest.CreateFormattedImage(t, testImageSize)

	// Seed the root so its content block exists before the measurement.
	elfstest.MakeTestDir(t, fs, "/keep")

	before, err := fs.Stat()
	require.NoError(t, err)

	dirID := elfstest.MakeTestDir(t, fs, "/scratch")
	root, err := fs.ReadInode(fs.Superblock().RootInodeID)
	require.NoError(t, err)
	require.NoError(t, fs.DirRemoveEntry(&root, "scratch"))
	require.NoError(t, fs.FreeInode(dirID))

	after, err := fs.Stat()
	require.NoError(t, err)
	assert.Equal(t, before.UsedBlocks, after.UsedBlocks)
	assert.Equal(t, before.UsedInodes, after.UsedInodes)
	assert.Equal(t, before.Directories, after.Directories)
}
