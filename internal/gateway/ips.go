package gateway

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

var (
	ErrNoIPAddress       = errors.New("at least one IP address is required")
	ErrIPAddressNotValid = errors.New("IP address is not valid")
)

func parseIPs(ipAddresses []string) (ips []netip.Addr, err error) {
	if len(ipAddresses) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoIPAddress)
	}

	ips = make([]netip.Addr, len(ipAddresses))
	for i, ipAddress := range ipAddresses {
		ips[i], err = netip.ParseAddr(strings.TrimSpace(ipAddress))
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %q",
				ErrInvalidInput, ErrIPAddressNotValid, ipAddress)
		}
	}
	return ips, nil
}
