// Package rawsock provides the production internal/arpprobe.Channel
// implementation: an AF_PACKET raw socket bound to an Ethernet interface,
// built on github.com/mdlayher/raw and github.com/mdlayher/ethernet.
package rawsock

import (
	"fmt"
	"net"
	"syscall"

	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/raw"
)

// channel wraps a raw.PacketConn bound to ETH_P_ARP, exchanging full
// Ethernet frames as the arpprobe.Channel interface expects.
type channel struct {
	ifi  *net.Interface
	conn net.PacketConn
}

// Open binds a raw ETH_P_ARP socket to the named interface. Each call opens
// an independent binding, so a caller needing separate read and write
// bindings (as internal/arpprobe.Client does) calls Open twice.
func Open(ifaceName string) (*channel, error) {
	ifi, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("lookup interface %q: %w", ifaceName, err)
	}

	conn, err := raw.ListenPacket(ifi, syscall.SOCK_RAW, syscall.ETH_P_ARP)
	if err != nil {
		return nil, fmt.Errorf("bind raw socket on %q: %w", ifaceName, err)
	}

	return &channel{ifi: ifi, conn: conn}, nil
}

// ReadFrame reads one Ethernet frame into buf and returns its length.
func (c *channel) ReadFrame(buf []byte) (int, error) {
	n, _, err := c.conn.ReadFrom(buf)
	return n, err
}

// WriteFrame writes frame, a complete Ethernet frame, to the broadcast
// address on the bound interface.
func (c *channel) WriteFrame(frame []byte) error {
	_, err := c.conn.WriteTo(frame, &raw.Addr{HardwareAddr: ethernet.Broadcast})
	return err
}

// Close releases the underlying socket.
func (c *channel) Close() error {
	return c.conn.Close()
}

// MACOf returns the hardware address of the named interface, or
// ErrNoMAC if the interface reports none (e.g. a loopback device).
func MACOf(ifaceName string) (net.HardwareAddr, error) {
	ifi, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("lookup interface %q: %w", ifaceName, err)
	}
	if len(ifi.HardwareAddr) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMAC, ifaceName)
	}
	return ifi.HardwareAddr, nil
}
