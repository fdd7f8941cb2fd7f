//go:build !linux

package netif

import (
	"fmt"
	"net"
)

// HostSource returns the LinkSource of the running host.
func HostSource() LinkSource {
	return stdSource{}
}

type stdSource struct{}

func (stdSource) Links() ([]Link, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	links := make([]Link, 0, len(ifaces))
	for _, iface := range ifaces {
		link := Link{
			Name:         iface.Name,
			HardwareAddr: iface.HardwareAddr,
			Up:           iface.Flags&net.FlagUp != 0,
		}
		addrs, err := iface.Addrs()
		if err == nil {
			for _, addr := range addrs {
				if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.To4() != nil {
					link.IPv4 = append(link.IPv4, ipNet.IP)
				}
			}
		}
		links = append(links, link)
	}
	return links, nil
}
