package mailbox

import (
	"net"

	"github.com/google/uuid"
)

// Session identifies the active circuit, per §3. At most one is live
// per Mailbox.
type Session struct {
	AgentID        uuid.UUID
	SessionID      uuid.UUID
	CircuitCode    uint32
	RegionAddr     *net.UDPAddr
	SeedCapability string
	LookAt         [3]float32
	RegionHandle   uint64
	FirstName      string
	LastName       string
}
