package watcher

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventSnapshotUpdated EventType = "snapshot_updated"
	EventSyncStarted     EventType = "sync_started"
)

// Event represents a state sync event.
type Event struct {
	Type EventType
	Data interface{}
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
