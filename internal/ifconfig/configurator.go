// Package ifconfig applies the address discovered by the core onto a
// network interface once probing confirms it is free. Uses `ip addr add`
// on Linux, falling back to sudo if direct execution fails with a
// permission error.
package ifconfig

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strings"
)

// Configurator assigns a discovered IPv4 address to a live interface.
type Configurator struct{}

// NewConfigurator builds a Configurator.
func NewConfigurator() *Configurator {
	return &Configurator{}
}

// Add assigns ip/prefixLen to iface via `ip addr add`. Idempotent: `ip addr
// add` on an address the interface already holds returns "File exists",
// which Add treats as success.
func (c *Configurator) Add(ctx context.Context, iface string, ip net.IP, prefixLen int) error {
	cidr := fmt.Sprintf("%s/%d", ip.String(), prefixLen)
	out, err := runCmd(ctx, "ip", "addr", "add", cidr, "dev", iface)
	if err != nil {
		if strings.Contains(string(out), "File exists") {
			return nil
		}
		return fmt.Errorf("ip addr add %s dev %s: %w: %s", cidr, iface, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// runCmd tries to run a command directly. If it fails with a permission
// error, it retries with sudo. This handles the case where CAP_NET_ADMIN
// is not set on the binary but the user has passwordless sudo configured.
func runCmd(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		outStr := strings.TrimSpace(string(out))
		if strings.Contains(outStr, "Operation not permitted") || strings.Contains(outStr, "EPERM") {
			sudoArgs := append([]string{name}, args...)
			return exec.CommandContext(ctx, "sudo", sudoArgs...).CombinedOutput()
		}
	}
	return out, err
}
