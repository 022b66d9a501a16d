// Package netconfig resolves the address the wall is served on and records it in the
// JSON artifact the browser scripts read to find the realtime endpoint.
package netconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/fsutil"
)

// Network is the resolved bind address.
type Network struct {
	IP   string
	Port int
}

// Addr returns the host:port listen address.
func (n Network) Addr(host string) string {
	return net.JoinHostPort(host, strconv.Itoa(n.Port))
}

// Resolve picks the advertised IP and the port to listen on. The preferred port is used
// when free; otherwise the OS assigns one. A preferred port of 0 always asks the OS.
func Resolve(host string, preferred int) (Network, error) {
	ip := CurrentIP()

	if preferred > 0 && PortAvailable(host, preferred) {
		return Network{IP: ip, Port: preferred}, nil
	}

	port, err := FreePort(host)
	if err != nil {
		return Network{}, err
	}
	if preferred > 0 {
		slog.Warn("Preferred port in use, using a free port", "preferred", preferred, "port", port)
	}
	return Network{IP: ip, Port: port}, nil
}

// CurrentIP returns the first non-loopback IPv4 address of this host, or 127.0.0.1.
func CurrentIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	return "127.0.0.1"
}

// PortAvailable reports whether a TCP listener can bind host:port right now.
func PortAvailable(host string, port int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// FreePort asks the OS for an unused TCP port on host.
func FreePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// Persist writes IP and PORT into the JSON object at path. Every other key keeps its
// value; a missing file is created.
func Persist(path string, n Network, lock *fsutil.Lock) error {
	return lock.Do(func() error {
		doc := map[string]json.RawMessage{}

		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to read network config: %w", err)
		case len(bytes.TrimSpace(raw)) > 0:
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("failed to parse network config: %w", err)
			}
		}

		ip, _ := json.Marshal(n.IP)
		doc["IP"] = ip
		doc["PORT"] = json.RawMessage(strconv.Itoa(n.Port))

		out, err := json.MarshalIndent(doc, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode network config: %w", err)
		}
		return fsutil.WriteFileAtomic(path, append(out, '\n'), 0o644)
	})
}
