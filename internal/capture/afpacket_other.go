//go:build !linux

package capture

import "errors"

func newAFPacketFacility() (Facility, error) {
	return nil, errors.New("afpacket backend is only available on linux")
}
