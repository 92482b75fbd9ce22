package wayland

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// bytesPerPixel is the size of one ARGB8888 pixel.
const bytesPerPixel = 4

// shmFile is an anonymous memory file shared with the compositor.
type shmFile struct {
	fd   int
	size int
}

// bufferLayout returns stride and total size of an ARGB8888 buffer.
func bufferLayout(width, height int32) (stride int32, size int32, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if int64(width)*bytesPerPixel > math.MaxInt32 {
		return 0, 0, fmt.Errorf("buffer width %d too large", width)
	}
	stride = width * bytesPerPixel
	total := int64(stride) * int64(height)
	if total > math.MaxInt32 {
		return 0, 0, fmt.Errorf("buffer %dx%d too large", width, height)
	}
	return stride, int32(total), nil
}

// newShmFile creates a memfd of the given size. Its contents are zero, which
// is fully transparent in ARGB8888.
func newShmFile(name string, size int) (*shmFile, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid shm size %d", size)
	}

	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("ftruncate: %w", err)
	}

	// The compositor must not be able to shrink the file under us.
	_, _ = unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_SEAL)

	return &shmFile{fd: fd, size: size}, nil
}

// Fd returns the file descriptor to pass to wl_shm.create_pool.
func (f *shmFile) Fd() int {
	return f.fd
}

// Close releases the file descriptor.
func (f *shmFile) Close() error {
	if f.fd < 0 {
		return nil
	}
	err := unix.Close(f.fd)
	f.fd = -1
	return err
}
