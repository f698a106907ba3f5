package arpprobe

import "errors"

// Sentinel errors surfaced by the ARP client and its collaborators.
var (
	// ErrInterfaceBind indicates the raw channel could not be opened or
	// bound to the named interface. Fatal, surfaced from Client construction.
	ErrInterfaceBind = errors.New("arpprobe: cannot bind raw channel to interface")

	// ErrInterfaceNoMAC indicates the interface's hardware address could not
	// be obtained. Fatal, returned by handler.New wrapping the lookup error.
	ErrInterfaceNoMAC = errors.New("arpprobe: interface has no MAC address")

	// ErrResponseTimeout indicates no ARP reply arrived within the
	// configured response_timeout. Never surfaced from Probe, which reports
	// it as Free.
	ErrResponseTimeout = errors.New("arpprobe: no reply within response timeout")
)
