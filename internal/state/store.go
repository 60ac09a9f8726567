// Package state maintains the local projection of hub players and
// queues. Entities are kept as raw documents so partial update events
// can be merged key by key; consumers read typed snapshots of the full
// collections, never deltas.
package state

import (
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// Doc is a raw entity document as delivered by the hub.
type Doc map[string]any

// Event is a push event applied to the store. The set is closed so
// dispatch stays exhaustive.
type Event interface {
	isEvent()
}

// PlayerAdded replaces the player at its id.
type PlayerAdded struct {
	Player Doc
}

// PlayerUpdated merges attributes into the player at its id. An
// update for an id never seen before is accepted as a partial record,
// matching hub behaviour.
type PlayerUpdated struct {
	Player Doc
}

// PlayerRemoved deletes a player.
type PlayerRemoved struct {
	PlayerID string
}

// QueueUpdated merges attributes into the queue at its id, inserting
// a partial record when the queue is unknown.
type QueueUpdated struct {
	Queue Doc
}

func (PlayerAdded) isEvent()   {}
func (PlayerUpdated) isEvent() {}
func (PlayerRemoved) isEvent() {}
func (QueueUpdated) isEvent()  {}

// Snapshot is an immutable copy of the full entity collections,
// ordered by id.
type Snapshot struct {
	Players []maapi.Player
	Queues  []maapi.PlayerQueue
}

// Store holds the authoritative local entity state. All mutation
// funnels through Seed and Apply; reads and the snapshot taken for
// change notifications are atomic with respect to mutation.
type Store struct {
	log *zap.Logger

	mu       sync.Mutex
	players  map[string]Doc
	queues   map[string]Doc
	onChange func(Snapshot)
}

// NewStore creates an empty store.
func NewStore(log *zap.Logger) *Store {
	return &Store{
		log:     log,
		players: make(map[string]Doc),
		queues:  make(map[string]Doc),
	}
}

// OnChange registers the single change consumer. The callback runs
// outside the store lock with a snapshot taken atomically after the
// mutation.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SeedPlayers replaces players from a bootstrap listing. Existing
// players are overwritten at their ids.
func (s *Store) SeedPlayers(docs []Doc) {
	s.mu.Lock()
	s.players = make(map[string]Doc, len(docs))
	for _, doc := range docs {
		id := docString(doc, "player_id")
		if id == "" {
			continue
		}
		s.players[id] = cloneDoc(doc)
	}
	s.notifyLocked()
}

// SeedQueues replaces queues from a bootstrap listing. Queues absent
// from the listing expire here, there is no incremental removal event.
func (s *Store) SeedQueues(docs []Doc) {
	s.mu.Lock()
	s.queues = make(map[string]Doc, len(docs))
	for _, doc := range docs {
		id := docString(doc, "queue_id")
		if id == "" {
			continue
		}
		s.queues[id] = cloneDoc(doc)
	}
	s.notifyLocked()
}

// Apply mutates the store with one push event and notifies.
func (s *Store) Apply(ev Event) {
	s.mu.Lock()
	switch e := ev.(type) {
	case PlayerAdded:
		id := docString(e.Player, "player_id")
		if id == "" {
			s.mu.Unlock()
			return
		}
		s.players[id] = cloneDoc(e.Player)
	case PlayerUpdated:
		id := docString(e.Player, "player_id")
		if id == "" {
			s.mu.Unlock()
			return
		}
		s.players[id] = mergeDoc(s.players[id], e.Player)
	case PlayerRemoved:
		delete(s.players, e.PlayerID)
	case QueueUpdated:
		id := docString(e.Queue, "queue_id")
		if id == "" {
			s.mu.Unlock()
			return
		}
		s.queues[id] = mergeDoc(s.queues[id], e.Queue)
	}
	s.notifyLocked()
}

// Snapshot returns the current typed collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap
}

// notifyLocked snapshots under the lock, releases it and invokes the
// change consumer. Callers must hold the lock.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Players: make([]maapi.Player, 0, len(s.players)),
		Queues:  make([]maapi.PlayerQueue, 0, len(s.queues)),
	}
	for _, doc := range s.players {
		var player maapi.Player
		if !s.decodeDoc(doc, &player) {
			continue
		}
		snap.Players = append(snap.Players, player)
	}
	for _, doc := range s.queues {
		var queue maapi.PlayerQueue
		if !s.decodeDoc(doc, &queue) {
			continue
		}
		snap.Queues = append(snap.Queues, queue)
	}
	sort.Slice(snap.Players, func(i, j int) bool {
		return snap.Players[i].PlayerID < snap.Players[j].PlayerID
	})
	sort.Slice(snap.Queues, func(i, j int) bool {
		return snap.Queues[i].QueueID < snap.Queues[j].QueueID
	})
	return snap
}

func (s *Store) decodeDoc(doc Doc, out any) bool {
	payload, err := json.Marshal(doc)
	if err != nil {
		s.log.Warn("undecodable entity document", zap.Error(err))
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.log.Warn("entity document shape mismatch", zap.Error(err))
		return false
	}
	return true
}

func docString(doc Doc, key string) string {
	v, ok := doc[key].(string)
	if !ok {
		return ""
	}
	return v
}

func cloneDoc(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// mergeDoc shallow-merges update into base. base may be nil.
func mergeDoc(base, update Doc) Doc {
	out := cloneDoc(base)
	for k, v := range update {
		out[k] = v
	}
	return out
}
