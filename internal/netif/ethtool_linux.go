//go:build linux

package netif

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const speedUnknown = 0xffff

const (
	ifreqSize    = int(unsafe.Sizeof(unix.Ifreq{}))
	ifreqDataPad = ifreqSize - unix.IFNAMSIZ - int(unsafe.Sizeof(uintptr(0)))
)

type ifreqData struct {
	Name [unix.IFNAMSIZ]byte
	Data unsafe.Pointer
	_    [ifreqDataPad]byte
}

// ethtoolCmd mirrors struct ethtool_cmd (ETHTOOL_GSET).
type ethtoolCmd struct {
	Cmd           uint32
	Supported     uint32
	Advertising   uint32
	Speed         uint16
	Duplex        uint8
	Port          uint8
	PhyAddress    uint8
	Transceiver   uint8
	Autoneg       uint8
	MdioSupport   uint8
	MaxTxPkt      uint32
	MaxRxPkt      uint32
	SpeedHi       uint16
	EthTpMdix     uint8
	EthTpMdixCtrl uint8
	LpAdvertising uint32
	Reserved      [2]uint32
}

// linkSpeed returns the negotiated speed of name in Mbps, or 0 when the driver
// does not report one (virtual links, no carrier).
func linkSpeed(name string) int {
	if len(name) >= unix.IFNAMSIZ {
		return 0
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return 0
	}
	defer unix.Close(fd)

	cmd := ethtoolCmd{Cmd: unix.ETHTOOL_GSET}
	var ifr ifreqData
	copy(ifr.Name[:], name)
	ifr.Data = unsafe.Pointer(&cmd)

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.SIOCETHTOOL), uintptr(unsafe.Pointer(&ifr))); errno != 0 {
		return 0
	}
	return parseSpeed(cmd.Speed, cmd.SpeedHi)
}

func parseSpeed(lo, hi uint16) int {
	if lo == speedUnknown || hi == speedUnknown {
		return 0
	}
	return int(uint32(hi)<<16 | uint32(lo))
}
