package arpprobe

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
)

// scriptedProber returns a fixed sequence of (status, error) pairs per
// target IP, one per call, holding the last entry once exhausted.
type scriptedProber struct {
	mu     sync.Mutex
	calls  map[string]int
	script map[string][]struct {
		status Status
		err    error
	}
}

func newScriptedProber() *scriptedProber {
	return &scriptedProber{
		calls: make(map[string]int),
		script: make(map[string][]struct {
			status Status
			err    error
		}),
	}
}

func (p *scriptedProber) set(ip string, statuses ...Status) {
	entries := make([]struct {
		status Status
		err    error
	}, len(statuses))
	for i, s := range statuses {
		entries[i] = struct {
			status Status
			err    error
		}{status: s}
	}
	p.script[ip] = entries
}

func (p *scriptedProber) setErr(ip string, err error) {
	p.script[ip] = []struct {
		status Status
		err    error
	}{{err: err}}
}

func (p *scriptedProber) Probe(ctx context.Context, senderMAC net.HardwareAddr, targetIP net.IP) (Status, error) {
	key := targetIP.String()
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls[key]
	p.calls[key] = i + 1

	entries := p.script[key]
	if len(entries) == 0 {
		return Free, nil
	}
	if i >= len(entries) {
		i = len(entries) - 1
	}
	return entries[i].status, entries[i].err
}

func (p *scriptedProber) callCount(ip string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[ip]
}

func TestRetryDriverAllFreeYieldsFree(t *testing.T) {
	prober := newScriptedProber()
	ip := net.IPv4(169, 254, 2, 2)
	prober.set(ip.String(), Free, Free, Free, Free, Free)

	driver := NewRetryDriver(prober, 5)
	outcomes, err := driver.ProbeBatch(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), []net.IP{ip})
	if err != nil {
		t.Fatalf("ProbeBatch error: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Status != Free {
		t.Fatalf("outcomes = %+v, want single Free", outcomes)
	}
	if got := prober.callCount(ip.String()); got != 5 {
		t.Errorf("call count = %d, want 5 (exactly n_retries)", got)
	}
}

func TestRetryDriverOccupiedShortCircuits(t *testing.T) {
	prober := newScriptedProber()
	ip := net.IPv4(169, 254, 2, 3)
	prober.set(ip.String(), Free, Occupied, Free, Free, Free)

	driver := NewRetryDriver(prober, 5)
	outcomes, err := driver.ProbeBatch(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), []net.IP{ip})
	if err != nil {
		t.Fatalf("ProbeBatch error: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Status != Occupied {
		t.Fatalf("outcomes = %+v, want single Occupied", outcomes)
	}
	if got := prober.callCount(ip.String()); got != 2 {
		t.Errorf("call count = %d, want 2 (short-circuited)", got)
	}
}

func TestRetryDriverErrorPropagates(t *testing.T) {
	prober := newScriptedProber()
	ip := net.IPv4(169, 254, 2, 4)
	boom := errors.New("boom")
	prober.setErr(ip.String(), boom)

	driver := NewRetryDriver(prober, 5)
	_, err := driver.ProbeBatch(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), []net.IP{ip})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestRetryDriverBatchClassifiesEachIP(t *testing.T) {
	prober := newScriptedProber()
	ip1 := net.IPv4(169, 254, 2, 5)
	ip2 := net.IPv4(169, 254, 2, 6)
	prober.set(ip1.String(), Free)
	prober.set(ip2.String(), Occupied)

	driver := NewRetryDriver(prober, 1)
	outcomes, err := driver.ProbeBatch(context.Background(), mustMAC("aa:bb:cc:dd:ee:ff"), []net.IP{ip1, ip2})
	if err != nil {
		t.Fatalf("ProbeBatch error: %v", err)
	}

	byIP := make(map[string]Status)
	for _, o := range outcomes {
		byIP[o.TargetIP.String()] = o.Status
	}
	if byIP[ip1.String()] != Free {
		t.Errorf("%s = %v, want Free", ip1, byIP[ip1.String()])
	}
	if byIP[ip2.String()] != Occupied {
		t.Errorf("%s = %v, want Occupied", ip2, byIP[ip2.String()])
	}
}
