package elfs

import (
	"fmt"
	"io"
)

// BlockDevice provides block-granular access to an image stream. There is no
// caching layer; every call hits the stream.
type BlockDevice struct {
	stream io.ReadWriteSeeker
}

// NewBlockDevice wraps an image stream.
func NewBlockDevice(stream io.ReadWriteSeeker) *BlockDevice {
	return &BlockDevice{stream: stream}
}

// Stream returns the underlying image stream.
func (dev *BlockDevice) Stream() io.ReadWriteSeeker {
	return dev.stream
}

// ReadBlock fills `buffer` with the contents of the block at the given
// absolute index. `buffer` must be exactly one block.
func (dev *BlockDevice) ReadBlock(index uint32, buffer []byte) error {
	if len(buffer) != BlockSize {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf("block buffer must be %d bytes, got %d", BlockSize, len(buffer)))
	}
	return dev.readAt(int64(index)*BlockSize, buffer)
}

// WriteBlock writes one full block at the given absolute index.
func (dev *BlockDevice) WriteBlock(index uint32, buffer []byte) error {
	if len(buffer) != BlockSize {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf("block buffer must be %d bytes, got %d", BlockSize, len(buffer)))
	}
	return dev.writeAt(int64(index)*BlockSize, buffer)
}

// ReadSpan reads `count` consecutive blocks starting at `start`.
func (dev *BlockDevice) ReadSpan(start, count uint32, buffer []byte) error {
	if len(buffer) != int(count)*BlockSize {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf("span buffer must be %d bytes, got %d", int(count)*BlockSize, len(buffer)))
	}
	return dev.readAt(int64(start)*BlockSize, buffer)
}

// WriteSpan writes `count` consecutive blocks starting at `start`.
func (dev *BlockDevice) WriteSpan(start, count uint32, buffer []byte) error {
	if len(buffer) != int(count)*BlockSize {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf("span buffer must be %d bytes, got %d", int(count)*BlockSize, len(buffer)))
	}
	return dev.writeAt(int64(start)*BlockSize, buffer)
}

func (dev *BlockDevice) readAt(offset int64, buffer []byte) error {
	if _, err := dev.stream.Seek(offset, io.SeekStart); err != nil {
		return ErrIOFailed.WrapError(err)
	}
	if _, err := io.ReadFull(dev.stream, buffer); err != nil {
		return ErrIOFailed.WrapError(err)
	}
	return nil
}

func (dev *BlockDevice) writeAt(offset int64, buffer []byte) error {
	if _, err := dev.stream.Seek(offset, io.SeekStart); err != nil {
		return ErrIOFailed.WrapError(err)
	}
	if _, err := dev.stream.Write(buffer); err != nil {
		return ErrIOFailed.WrapError(err)
	}
	return nil
}
