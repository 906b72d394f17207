package share

import (
	"net"

	"LocalPaint/internal/logx"
)

// OutgoingIP finds the local address other machines on the LAN should use
// to reach the live view.
func OutgoingIP() string {
	// UDP dial sends no packets; it only selects the outgoing interface.
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return firstIPv4().String()
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return firstIPv4().String()
}

// firstIPv4 is used on networks without a default route.
func firstIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		logx.Logger().Warn("share: listing interfaces", "err", err)
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	logx.Logger().Info("share: no LAN address found, using loopback")
	return net.IPv4(127, 0, 0, 1)
}
