//go:build linux

package netif

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpeed(t *testing.T) {
	assert.Equal(t, 1000, parseSpeed(1000, 0))
	assert.Equal(t, 100000, parseSpeed(uint16(100000&0xffff), uint16(100000>>16)))
	assert.Equal(t, 0, parseSpeed(0xffff, 0xffff))
	assert.Equal(t, 0, parseSpeed(0, 0))
}

func TestLinkSpeedUnknownInterface(t *testing.T) {
	assert.Equal(t, 0, linkSpeed("does-not-exist0"))
	assert.Equal(t, 0, linkSpeed("a-name-longer-than-ifnamsiz"))
}
