package capture

import (
	"fmt"

	"github.com/google/gopacket/pcap"
)

// Devices lists capture devices known to libpcap. It serves as the degraded
// interface source and as the friendly-name provider for interface
// enumeration.
type Devices struct {
	findAll func() ([]pcap.Interface, error)
}

func NewDevices() *Devices {
	return &Devices{findAll: pcap.FindAllDevs}
}

// DeviceNames returns the system names of all capture devices.
func (d *Devices) DeviceNames() ([]string, error) {
	devs, err := d.findAll()
	if err != nil {
		return nil, fmt.Errorf("pcap find devices: %w", err)
	}
	names := make([]string, 0, len(devs))
	for _, dev := range devs {
		names = append(names, dev.Name)
	}
	return names, nil
}

// FriendlyNames maps device names to their libpcap description. Devices
// without a description are omitted.
func (d *Devices) FriendlyNames() (map[string]string, error) {
	devs, err := d.findAll()
	if err != nil {
		return nil, fmt.Errorf("pcap find devices: %w", err)
	}
	names := make(map[string]string, len(devs))
	for _, dev := range devs {
		if dev.Description != "" {
			names[dev.Name] = dev.Description
		}
	}
	return names, nil
}
