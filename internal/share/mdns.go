package share

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service the live view is announced under.
const ServiceType = "_localpaint._tcp"

// Advertise announces the live view on the local network until the returned
// server is shut down.
func Advertise(port int, session string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("share: hostname: %w", err)
	}

	info := []string{"LocalPaint live view", "session=" + session, "path=/"}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("share: mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("share: mdns server: %w", err)
	}
	return server, nil
}
