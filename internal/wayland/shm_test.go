package wayland

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestBufferLayout(t *testing.T) {
	stride, size, err := bufferLayout(1920, 1080)
	require.NoError(t, err)
	assert.Equal(t, int32(7680), stride)
	assert.Equal(t, int32(1920*1080*4), size)
}

func TestBufferLayout_Invalid(t *testing.T) {
	for _, dims := range [][2]int32{{0, 1080}, {1920, 0}, {-1, 10}, {1 << 20, 1 << 20}} {
		_, _, err := bufferLayout(dims[0], dims[1])
		assert.Error(t, err, "dims %v", dims)
	}
}

func TestNewShmFile(t *testing.T) {
	f, err := newShmFile("wltrans-test", 4096)
	require.NoError(t, err)
	defer f.Close()

	var st unix.Stat_t
	require.NoError(t, unix.Fstat(f.Fd(), &st))
	assert.Equal(t, int64(4096), st.Size)

	require.NoError(t, f.Close())
	assert.NoError(t, f.Close(), "second close is a no-op")
}

func TestNewShmFile_InvalidSize(t *testing.T) {
	_, err := newShmFile("wltrans-test", 0)
	assert.Error(t, err)
}
