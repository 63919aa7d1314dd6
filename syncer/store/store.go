package store

import (
	"encoding/hex"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/vx-labs/sync-fabric/events"
	"github.com/vx-labs/sync-fabric/syncer/pb"
)

const (
	table = "messages"
)

// queuedMessage is one pending delivery: viewer has not yet been told about
// Message. One row exists per (viewer, origin, component), so a burst of
// updates for the same key collapses to the latest version.
type queuedMessage struct {
	ID      string
	Viewer  string
	Message *pb.SyncMessage
}

// MessageStore is the routing table of the fabric. All methods must run on
// the syncer's executor; single-writer discipline replaces locking.
type MessageStore struct {
	db      *memdb.MemDB
	viewers map[string]struct{}
	latest  map[string]*pb.SyncMessage
	events  *events.Bus
}

func NewMessageStore(bus *events.Bus) *MessageStore {
	db, err := memdb.NewMemDB(&memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table: {
				Name: table,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:         "id",
						Unique:       true,
						AllowMissing: false,
						Indexer: &memdb.StringFieldIndex{
							Field: "ID",
						},
					},
					"viewer": {
						Name:         "viewer",
						Unique:       false,
						AllowMissing: false,
						Indexer:      &memdb.StringFieldIndex{Field: "Viewer"},
					},
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return &MessageStore{
		db:      db,
		viewers: map[string]struct{}{},
		latest:  map[string]*pb.SyncMessage{},
		events:  bus,
	}
}

func messageKey(origin string, component pb.ComponentID) string {
	return fmt.Sprintf("%s/%d", hex.EncodeToString([]byte(origin)), component)
}

func rowID(viewer, origin string, component pb.ComponentID) string {
	return fmt.Sprintf("%s/%s", hex.EncodeToString([]byte(viewer)), messageKey(origin, component))
}

// AddViewer opens a delivery queue for viewer, seeded with the latest known
// message of every key, so a freshly connected (or reconnected) peer gets a
// full refresh of current state on its first write tick. Re-adding an
// existing viewer resets its queue first.
func (s *MessageStore) AddViewer(viewer string) {
	s.dropViewerRows(viewer)
	s.viewers[viewer] = struct{}{}
	err := s.write(func(tx *memdb.Txn) error {
		for _, message := range s.latest {
			origin := string(message.OriginNodeId)
			if origin == viewer {
				continue
			}
			err := tx.Insert(table, &queuedMessage{
				ID:      rowID(viewer, origin, message.ComponentId),
				Viewer:  viewer,
				Message: message,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
	if s.events != nil {
		s.events.Emit(events.Event{Kind: events.PeerUp, Peer: viewer})
	}
}

// RemoveViewer drops the viewer and everything queued for it.
func (s *MessageStore) RemoveViewer(viewer string) {
	if _, ok := s.viewers[viewer]; !ok {
		return
	}
	delete(s.viewers, viewer)
	s.dropViewerRows(viewer)
	if s.events != nil {
		s.events.Emit(events.Event{Kind: events.PeerDown, Peer: viewer})
	}
}

func (s *MessageStore) HasViewer(viewer string) bool {
	_, ok := s.viewers[viewer]
	return ok
}

// Ingest integrates a message received from the given node (or produced
// locally when from == self). It reports whether the message was fresh:
// stale or unknown-component messages are silently discarded.
func (s *MessageStore) Ingest(from string, message *pb.SyncMessage) bool {
	if message == nil || !pb.ValidComponent(message.ComponentId) {
		return false
	}
	origin := string(message.OriginNodeId)
	key := messageKey(origin, message.ComponentId)
	if last, ok := s.latest[key]; ok && message.Version <= last.Version {
		return false
	}
	s.latest[key] = message
	err := s.write(func(tx *memdb.Txn) error {
		for viewer := range s.viewers {
			if viewer == origin || viewer == from {
				continue
			}
			err := tx.Insert(table, &queuedMessage{
				ID:      rowID(viewer, origin, message.ComponentId),
				Viewer:  viewer,
				Message: message,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
	return true
}

// DrainFor returns and removes every message queued for viewer. The order
// is the iteration order of one snapshot; callers treat it as a set.
func (s *MessageStore) DrainFor(viewer string) []*pb.SyncMessage {
	var rows []*queuedMessage
	err := s.write(func(tx *memdb.Txn) error {
		iterator, err := tx.Get(table, "viewer", viewer)
		if err != nil {
			return err
		}
		for {
			payload := iterator.Next()
			if payload == nil {
				break
			}
			rows = append(rows, payload.(*queuedMessage))
		}
		for _, row := range rows {
			if err := tx.Delete(table, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
	out := make([]*pb.SyncMessage, len(rows))
	for idx, row := range rows {
		out[idx] = row.Message
	}
	return out
}

// PendingFor reports how many messages are queued for viewer, without
// draining them.
func (s *MessageStore) PendingFor(viewer string) int {
	count := 0
	s.read(func(tx *memdb.Txn) error {
		iterator, err := tx.Get(table, "viewer", viewer)
		if err != nil {
			return err
		}
		for iterator.Next() != nil {
			count++
		}
		return nil
	})
	return count
}

// DumpEntry is one line of the diagnostic dump.
type DumpEntry struct {
	Viewer    string `json:"viewer"`
	Origin    string `json:"origin"`
	Component int32  `json:"component"`
	Version   uint64 `json:"version"`
}

// Dump lists every queued (viewer, origin, component) -> version.
func (s *MessageStore) Dump() []DumpEntry {
	out := []DumpEntry{}
	s.read(func(tx *memdb.Txn) error {
		iterator, err := tx.Get(table, "id")
		if err != nil {
			return err
		}
		for {
			payload := iterator.Next()
			if payload == nil {
				return nil
			}
			row := payload.(*queuedMessage)
			out = append(out, DumpEntry{
				Viewer:    row.Viewer,
				Origin:    string(row.Message.OriginNodeId),
				Component: int32(row.Message.ComponentId),
				Version:   row.Message.Version,
			})
		}
	})
	return out
}

func (s *MessageStore) dropViewerRows(viewer string) {
	err := s.write(func(tx *memdb.Txn) error {
		_, err := tx.DeleteAll(table, "viewer", viewer)
		return err
	})
	if err != nil {
		panic(err)
	}
}

func (s *MessageStore) read(statement func(tx *memdb.Txn) error) error {
	tx := s.db.Txn(false)
	return s.run(tx, statement)
}
func (s *MessageStore) write(statement func(tx *memdb.Txn) error) error {
	tx := s.db.Txn(true)
	return s.run(tx, statement)
}
func (s *MessageStore) run(tx *memdb.Txn, statement func(tx *memdb.Txn) error) error {
	defer tx.Abort()
	err := statement(tx)
	if err != nil {
		return err
	}
	tx.Commit()
	return nil
}
