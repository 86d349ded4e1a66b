package sar

import (
	"sync"

	"github.com/modemkit/gosms/tpdu"
)

// key identifies a concatenation group: the originator's digits plus the
// concatenated-reference value carried by every fragment's UDH.
type key struct {
	originator string
	ref        int
}

// group buffers the fragments of one in-progress multipart message.
type group struct {
	total     int
	fragments map[int]*tpdu.IncomingMessage
}

// Reassembler groups concatenated SMS fragments by (originator, mp_ref)
// and emits a single IncomingMessage once every part has arrived, per
// spec.md §4.7. It holds no expiry timer: an incomplete group simply
// waits for its remaining parts.
type Reassembler struct {
	mu     sync.Mutex
	groups map[key]*group
}

// New returns an empty Reassembler.
func New() *Reassembler {
	return &Reassembler{groups: make(map[key]*group)}
}

// Add feeds one decoded fragment into the reassembler.
//
// If msg is not part of a concatenated set, it is returned unchanged and
// ready for delivery. If msg completes a set, the assembled message is
// returned. Otherwise (awaiting further parts, or a duplicate sequence
// number that is dropped silently) the second return value is false.
func (r *Reassembler) Add(msg tpdu.IncomingMessage) (*tpdu.IncomingMessage, bool) {
	if msg.Concat == nil {
		return &msg, true
	}

	k := key{originator: msg.Originator.Digits, ref: msg.Concat.Ref}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[k]
	if !ok {
		g = &group{total: msg.Concat.TotalParts, fragments: make(map[int]*tpdu.IncomingMessage)}
		r.groups[k] = g
	}
	if _, dup := g.fragments[msg.Concat.SeqNum]; dup {
		return nil, false
	}

	frag := msg
	g.fragments[msg.Concat.SeqNum] = &frag
	if len(g.fragments) < g.total {
		return nil, false
	}

	delete(r.groups, k)
	return assemble(g), true
}

// Pending reports the number of concatenation groups awaiting further
// fragments, for diagnostics.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

func assemble(g *group) *tpdu.IncomingMessage {
	first := g.fragments[1]
	out := &tpdu.IncomingMessage{
		MemIndex:   -1,
		Originator: first.Originator,
		SMSC:       first.SMSC,
		Timestamp:  first.Timestamp,
		Encoding:   first.Encoding,
	}

	for seq := 1; seq <= g.total; seq++ {
		part := g.fragments[seq]
		if part == nil {
			continue
		}
		out.MPMemIndices = append(out.MPMemIndices, part.MemIndex)
		if part.Encoding == tpdu.EncodingBinary {
			out.Binary = append(out.Binary, part.Binary...)
		} else {
			out.Text += part.Text
		}
	}
	return out
}
