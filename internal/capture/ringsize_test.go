package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingGeometry(t *testing.T) {
	tests := []struct {
		name     string
		bufferMB int
		snapLen  int
		pageSize int
	}{
		{"default snaplen", 8, 65535, 4096},
		{"small frames", 2, 128, 4096},
		{"ethernet mtu", 16, 1514, 4096},
		{"large pages", 64, 9000, 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frameSize, blockSize, numBlocks, err := ringGeometry(tt.bufferMB, tt.snapLen, tt.pageSize)
			require.NoError(t, err)

			assert.Zero(t, frameSize%tpacketAlignment, "frame size aligned")
			assert.GreaterOrEqual(t, frameSize, tt.snapLen+tpacketHdrLen)
			assert.Zero(t, blockSize%tt.pageSize, "block size is a page multiple")
			assert.Zero(t, blockSize%frameSize, "block holds whole frames")
			assert.GreaterOrEqual(t, numBlocks, 1)
		})
	}
}

func TestRingGeometrySmallFramesAreExact(t *testing.T) {
	frameSize, blockSize, numBlocks, err := ringGeometry(1, 128, 4096)
	require.NoError(t, err)

	assert.Equal(t, 192, frameSize)
	assert.Equal(t, 12288, blockSize)
	assert.Zero(t, blockSize%frameSize)
	assert.Equal(t, 1024*1024/12288, numBlocks)
}

func TestRingGeometryLargeFramesUsePages(t *testing.T) {
	frameSize, blockSize, numBlocks, err := ringGeometry(8, 65535, 4096)
	require.NoError(t, err)

	assert.Equal(t, 69632, frameSize)
	assert.Equal(t, frameSize, blockSize)
	assert.Equal(t, 8*1024*1024/69632, numBlocks)
}

func TestRingGeometryInvalid(t *testing.T) {
	_, _, _, err := ringGeometry(0, 1500, 4096)
	assert.Error(t, err)
	_, _, _, err = ringGeometry(8, 0, 4096)
	assert.Error(t, err)
	_, _, _, err = ringGeometry(8, 1500, 1000)
	assert.Error(t, err)
}

func TestLCM(t *testing.T) {
	assert.Equal(t, 12, lcm(4, 6))
	assert.Equal(t, 0, lcm(0, 6))
	assert.Equal(t, 4096, lcm(4096, 16))
}
