// Package sockopt applies platform socket tuning to the circuit's UDP
// socket and the UI transport's datagram socket: receive buffer sizing,
// SO_REUSEADDR, and Unix socket file permissions. The unix-specific
// work lives behind a build tag since golang.org/x/sys/unix has no
// Windows implementation.
package sockopt

import "net"

// RecvBufferSize is applied to the circuit's UDP socket so a burst of
// object updates doesn't overrun the kernel buffer between Mailbox
// ticks.
const RecvBufferSize = 1 << 20 // 1 MiB

// TuneUDP applies RecvBufferSize and SO_REUSEADDR to conn, best-effort:
// failures are non-fatal since the socket is already usable with
// kernel defaults.
func TuneUDP(conn *net.UDPConn) error {
	return tuneUDP(conn)
}

// ChmodSocket restricts a Unix domain socket file to the owner, since
// the UI transport's datagram socket carries a trusted local peer and
// should not be group/world writable.
func ChmodSocket(path string) error {
	return chmodSocket(path)
}
