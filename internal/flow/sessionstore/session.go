// Package sessionstore implements the Session Store (C7): a
// per-sender-locked concurrent map from sender id to Session.
package sessionstore

import "sync"

// historyCap bounds the in-memory audit trail so a long-lived cyclic
// session (repeatedly visited, never completed) cannot grow without
// bound; the original Python source has no such cap because every
// request is itself bounded to 15 hops and the dict is never paged.
const historyCap = 200

// HistoryEntry is one audit-trail record. Kind is either "trigger" (a
// node was entered with a given trigger) or "transition" (the engine
// moved to a new node via a given trigger).
type HistoryEntry struct {
	Kind    string
	NodeID  string
	Trigger string
}

// Session is one sender's in-memory dialog state.
type Session struct {
	CurrentNodeID string
	Variables     map[string]string
	History       []HistoryEntry
}

func newSession(startNodeID string) *Session {
	return &Session{
		CurrentNodeID: startNodeID,
		Variables:     make(map[string]string),
	}
}

func (s *Session) appendHistory(kind, nodeID, trigger string) {
	s.History = append(s.History, HistoryEntry{Kind: kind, NodeID: nodeID, Trigger: trigger})
	if len(s.History) > historyCap {
		s.History = s.History[len(s.History)-historyCap:]
	}
}

// entry is the store's internal per-sender record: the session data
// plus the mutex that serializes access to it. The map-level lock only
// protects entry creation/lookup/deletion; entry.mu protects the
// session fields themselves, so two different senders never block on
// each other.
type entry struct {
	mu      sync.Mutex
	session *Session
}

// Store is a concurrent sender-id -> Session map with per-sender
// exclusion (§4.7, §5).
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// WithSession runs fn holding the exclusive lock for sender. If no
// session exists yet, session is nil going in; fn may create one by
// returning a non-nil *Session for persist, or the store deletes any
// existing entry if the returned session is nil.
func (st *Store) WithSession(sender string, fn func(existing *Session) (next *Session)) {
	e := st.acquire(sender)
	defer e.mu.Unlock()

	next := fn(e.session)
	e.session = next

	if next == nil {
		st.mu.Lock()
		delete(st.entries, sender)
		st.mu.Unlock()
	}
}

// acquire returns the locked entry currently mapped to sender. A caller
// that read an entry from the map while a previous holder was about to
// delete it (its session ended) would otherwise lock and write into an
// orphaned entry, silently losing its update — so after locking e.mu,
// acquire re-checks that e is still the entry mapped to sender and
// retries against whatever is current if not.
func (st *Store) acquire(sender string) *entry {
	for {
		st.mu.Lock()
		e, ok := st.entries[sender]
		if !ok {
			e = &entry{}
			st.entries[sender] = e
		}
		st.mu.Unlock()

		e.mu.Lock()

		st.mu.Lock()
		current, stillMapped := st.entries[sender]
		st.mu.Unlock()
		if stillMapped && current == e {
			return e
		}
		e.mu.Unlock()
	}
}

// NewSession constructs a fresh session parked at startNodeID. Exposed
// so the engine can build one inside a WithSession callback.
func NewSession(startNodeID string) *Session {
	return newSession(startNodeID)
}

// AppendHistory records one audit-trail entry, exposed for the engine
// to call inside a locked WithSession callback.
func (s *Session) AppendHistory(kind, nodeID, trigger string) {
	s.appendHistory(kind, nodeID, trigger)
}

// Purge removes every session, used by /reload_flow when the loaded
// flow's identity changes (§4.9).
func (st *Store) Purge() {
	st.mu.Lock()
	st.entries = make(map[string]*entry)
	st.mu.Unlock()
}

// Len reports the number of tracked sessions (used by tests).
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
