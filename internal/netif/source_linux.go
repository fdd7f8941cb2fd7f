//go:build linux

package netif

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"

	"firestige.xyz/netsniff/internal/log"
)

// HostSource returns the LinkSource of the running host, backed by rtnetlink.
func HostSource() LinkSource {
	return netlinkSource{speed: linkSpeed}
}

type netlinkSource struct {
	speed func(name string) int
}

func (s netlinkSource) Links() ([]Link, error) {
	nlLinks, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("netlink list: %w", err)
	}

	links := make([]Link, 0, len(nlLinks))
	for _, nll := range nlLinks {
		attrs := nll.Attrs()
		link := Link{
			Name:         attrs.Name,
			HardwareAddr: attrs.HardwareAddr,
			Up:           attrs.Flags&net.FlagUp != 0 && attrs.OperState != netlink.OperDown && attrs.OperState != netlink.OperNotPresent,
		}
		if link.Up && s.speed != nil {
			link.SpeedMbps = s.speed(attrs.Name)
		}

		addrs, err := netlink.AddrList(nll, netlink.FAMILY_V4)
		if err != nil {
			// One unreadable link must not hide the others.
			log.GetLogger().WithField("interface", attrs.Name).WithError(err).Debug("netlink address list failed")
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				link.IPv4 = append(link.IPv4, addr.IP)
			}
		}
		links = append(links, link)
	}
	return links, nil
}
