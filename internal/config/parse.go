package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
)

var (
	ErrInvalidFrequency = errors.New("frequency is not a valid number")
	ErrInvalidServer    = errors.New("server is not a literal ip:port")
)

// ParseFrequency parses a frequency in Hz. Any unsigned 64-bit integer is accepted.
func ParseFrequency(s string) (uint64, error) {
	freq, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return freq, nil
}

// ParseServer parses a literal "ip:port" pair. Host names are rejected; no
// DNS lookup is ever made.
func ParseServer(s string) (netip.AddrPort, error) {
	addr, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: %q", ErrInvalidServer, s)
	}
	return addr, nil
}
