//go:build !unix

package sockopt

import "net"

func tuneUDP(conn *net.UDPConn) error {
	return nil
}

func chmodSocket(path string) error {
	return nil
}
