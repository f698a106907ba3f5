// Package candidate implements the link-local address search pipeline:
// a selector producing every scannable 169.254.0.0/16 host in ascending
// order, a batcher grouping them into fixed-size chunks, and a finder that
// composes a batch with a prober to surface free addresses.
package candidate

import "net"

// Selector is a stateful, lazy producer of candidate IPv4 addresses.
// Select returns the current address and advances; once exhausted it keeps
// returning false forever.
type Selector interface {
	Select() (net.IP, bool)
}

// linkLocalSelector walks the materialized list of scannable 169.254.0.0/16
// hosts in ascending order. Exhaustion is permanent: once index reaches the
// end it never resets.
type linkLocalSelector struct {
	ips   []net.IP
	index int
}

// NewLinkLocalSelector builds a selector over every IPv4 link-local address
// fit to scan: third octet in [1,254] (excluding the reserved .0 and .255
// thirds of the /16), fourth octet unrestricted across [0,255]. That is
// 254*256 = 65024 addresses, in strictly ascending order.
func NewLinkLocalSelector() Selector {
	ips := make([]net.IP, 0, 254*256)
	for third := 1; third <= 254; third++ {
		for fourth := 0; fourth <= 255; fourth++ {
			ips = append(ips, net.IPv4(169, 254, byte(third), byte(fourth)).To4())
		}
	}
	return &linkLocalSelector{ips: ips}
}

// Select returns the current candidate and advances, or (nil, false) once
// the list is exhausted.
func (s *linkLocalSelector) Select() (net.IP, bool) {
	if s.index >= len(s.ips) {
		return nil, false
	}
	ip := s.ips[s.index]
	s.index++
	return ip, true
}
