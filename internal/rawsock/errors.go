package rawsock

import "errors"

// ErrNoMAC indicates the named interface exists but reports no hardware
// address (e.g. loopback or a tunnel device).
var ErrNoMAC = errors.New("rawsock: interface has no hardware address")
