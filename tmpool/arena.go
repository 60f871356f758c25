package tmpool

import (
	"strconv"

	"golang.org/x/exp/slices"
)

// SessionHandle identifies a session within its pool. A handle goes stale when its session is
// destroyed; stale handles never resolve, even after the slot is reused. The zero SessionHandle
// never resolves.
type SessionHandle struct {
	slot       uint32
	generation uint32
}

// IsNil reports whether h is the zero handle
func (h SessionHandle) IsNil() bool {
	return h.generation == 0
}

func (h SessionHandle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return strconv.FormatUint(uint64(h.slot), 10) + "g" + strconv.FormatUint(uint64(h.generation), 10)
}

type arenaSlot struct {
	session *Session
	// generation is the generation of the current occupant, or of the last one if the slot is free
	generation uint32
}

// sessionArena stores sessions in reusable slots and remembers the order they were created in
type sessionArena struct {
	slots    []arenaSlot
	freeList []uint32
	order    []SessionHandle
}

func (a *sessionArena) insert(session *Session) SessionHandle {
	var index uint32
	if len(a.freeList) > 0 {
		index = a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot{})
	}

	slot := &a.slots[index]
	slot.generation++
	slot.session = session

	handle := SessionHandle{slot: index, generation: slot.generation}
	a.order = append(a.order, handle)
	return handle
}

func (a *sessionArena) get(handle SessionHandle) (*Session, bool) {
	if handle.IsNil() || int(handle.slot) >= len(a.slots) {
		return nil, false
	}

	slot := &a.slots[handle.slot]
	if slot.session == nil || slot.generation != handle.generation {
		return nil, false
	}
	return slot.session, true
}

// remove empties the handle's slot and returns the session that occupied it
func (a *sessionArena) remove(handle SessionHandle) (*Session, bool) {
	session, ok := a.get(handle)
	if !ok {
		return nil, false
	}

	a.slots[handle.slot].session = nil
	a.freeList = append(a.freeList, handle.slot)

	index := slices.Index(a.order, handle)
	if index >= 0 {
		a.order = slices.Delete(a.order, index, index+1)
	}
	return session, true
}

// handles returns a snapshot of the live handles in creation order. The arena may be modified
// while the snapshot is walked.
func (a *sessionArena) handles() []SessionHandle {
	return slices.Clone(a.order)
}

// each calls cb on every live session in creation order until cb returns true
func (a *sessionArena) each(cb func(handle SessionHandle, session *Session) bool) {
	for _, handle := range a.order {
		if cb(handle, a.slots[handle.slot].session) {
			return
		}
	}
}

func (a *sessionArena) len() int {
	return len(a.order)
}
