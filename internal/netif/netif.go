// Package netif enumerates the network interfaces a capture can be started on.
package netif

import (
	"net"
	"sort"
	"strings"

	"firestige.xyz/netsniff/internal/log"
)

const (
	// NotAvailable is the IPv4 placeholder of an interface without an address.
	NotAvailable = "N/A"
	// ZeroMAC is the placeholder of an interface without a hardware address.
	ZeroMAC = "00:00:00:00:00:00"
)

// Status is the link status of an interface.
type Status string

const (
	StatusUp   Status = "Up"
	StatusDown Status = "Down"
)

// Interface describes one system network interface at enumeration time.
type Interface struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	IPv4        string `json:"ipv4" yaml:"ipv4"`
	MAC         string `json:"mac" yaml:"mac"`
	Status      Status `json:"status" yaml:"status"`
	SpeedMbps   int    `json:"speed_mbps,omitempty" yaml:"speed_mbps,omitempty"` // 0 when unknown
}

// Up reports whether the link is up.
func (i Interface) Up() bool {
	return i.Status == StatusUp
}

// Link is what a LinkSource knows about one interface.
type Link struct {
	Name         string
	HardwareAddr net.HardwareAddr
	IPv4         []net.IP
	Up           bool
	SpeedMbps    int
}

// LinkSource reads the interfaces of the host.
type LinkSource interface {
	Links() ([]Link, error)
}

// FriendlyNamer maps system interface names to human readable names.
type FriendlyNamer interface {
	FriendlyNames() (map[string]string, error)
}

// DeviceLister lists bare device names. It backs the degraded listing used when
// the LinkSource fails.
type DeviceLister interface {
	DeviceNames() ([]string, error)
}

// Enumerator lists usable interfaces. It keeps no state between calls.
type Enumerator struct {
	source   LinkSource
	namer    FriendlyNamer
	fallback DeviceLister
	exclude  []string
	logger   log.Logger
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithSource replaces the host LinkSource.
func WithSource(src LinkSource) Option {
	return func(e *Enumerator) { e.source = src }
}

// WithFriendlyNamer sets the optional display-name provider.
func WithFriendlyNamer(n FriendlyNamer) Option {
	return func(e *Enumerator) { e.namer = n }
}

// WithFallback sets the device lister used when the LinkSource fails.
func WithFallback(d DeviceLister) Option {
	return func(e *Enumerator) { e.fallback = d }
}

// WithExcludePrefixes sets the name prefixes of interfaces never listed.
func WithExcludePrefixes(prefixes []string) Option {
	return func(e *Enumerator) { e.exclude = prefixes }
}

// NewEnumerator creates an Enumerator reading the host interfaces.
func NewEnumerator(opts ...Option) *Enumerator {
	e := &Enumerator{
		source: HostSource(),
		logger: log.GetLogger().WithField("component", "netif"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// List returns the usable interfaces, Up ones first, then by display name.
//
// Interfaces matching an exclude prefix are dropped, as are those with neither
// an IPv4 address nor an Up link. List never fails: if the LinkSource fails it
// falls back to bare device names with placeholder values, and to an empty
// list when that fails too.
func (e *Enumerator) List() []Interface {
	links, err := e.source.Links()
	if err != nil {
		e.logger.WithError(err).Warn("interface enumeration failed, using device names only")
		return e.degraded()
	}

	names := e.friendlyNames()
	out := make([]Interface, 0, len(links))
	for _, l := range links {
		iface := Interface{
			Name:        l.Name,
			DisplayName: l.Name,
			IPv4:        NotAvailable,
			MAC:         ZeroMAC,
			Status:      StatusDown,
			SpeedMbps:   l.SpeedMbps,
		}
		if friendly, ok := names[l.Name]; ok {
			iface.DisplayName = friendly
		}
		if e.excluded(iface) {
			continue
		}
		if ip := firstIPv4(l.IPv4); ip != "" {
			iface.IPv4 = ip
		}
		if len(l.HardwareAddr) > 0 {
			iface.MAC = l.HardwareAddr.String()
		}
		if l.Up {
			iface.Status = StatusUp
		}
		if iface.IPv4 == NotAvailable && !iface.Up() {
			continue
		}
		out = append(out, iface)
	}

	sortInterfaces(out)
	return out
}

func (e *Enumerator) degraded() []Interface {
	out := make([]Interface, 0)
	if e.fallback == nil {
		return out
	}
	devices, err := e.fallback.DeviceNames()
	if err != nil {
		e.logger.WithError(err).Error("device listing failed")
		return out
	}
	for _, name := range devices {
		iface := Interface{
			Name:        name,
			DisplayName: name,
			IPv4:        NotAvailable,
			MAC:         ZeroMAC,
			Status:      StatusDown,
		}
		if e.excluded(iface) {
			continue
		}
		out = append(out, iface)
	}
	sortInterfaces(out)
	return out
}

func (e *Enumerator) friendlyNames() map[string]string {
	if e.namer == nil {
		return nil
	}
	names, err := e.namer.FriendlyNames()
	if err != nil {
		e.logger.WithError(err).Debug("friendly names unavailable")
		return nil
	}
	return names
}

func (e *Enumerator) excluded(iface Interface) bool {
	for _, prefix := range e.exclude {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(iface.Name, prefix) || strings.HasPrefix(iface.DisplayName, prefix) {
			return true
		}
	}
	return false
}

func firstIPv4(ips []net.IP) string {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}

func sortInterfaces(ifaces []Interface) {
	sort.SliceStable(ifaces, func(i, j int) bool {
		if ifaces[i].Up() != ifaces[j].Up() {
			return ifaces[i].Up()
		}
		return ifaces[i].DisplayName < ifaces[j].DisplayName
	})
}
