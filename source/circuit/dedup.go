package circuit

// InboundDedup is a FIFO-bounded set of recently-seen reliable inbound
// sequence numbers, used to drop resends the peer retransmitted before
// our ack arrived.
type InboundDedup struct {
	seen  map[uint32]struct{}
	order []uint32
	limit int
}

// NewInboundDedup returns a dedup window holding at most limit entries.
func NewInboundDedup(limit int) *InboundDedup {
	return &InboundDedup{
		seen:  make(map[uint32]struct{}, limit),
		limit: limit,
	}
}

// SeenOrInsert reports whether seq was already present; if not, it is
// inserted and, if the window is over capacity, the oldest entry is
// evicted.
func (d *InboundDedup) SeenOrInsert(seq uint32) bool {
	if _, ok := d.seen[seq]; ok {
		return true
	}
	d.seen[seq] = struct{}{}
	d.order = append(d.order, seq)
	if len(d.order) > d.limit {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	return false
}
