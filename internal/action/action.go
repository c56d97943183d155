package action

import (
	"github.com/five82/timekeep/internal/entry"
	"github.com/five82/timekeep/internal/flux"
)

// Type enumerates the closed set of actions.
type Type int

const (
	TypeLoadRequested Type = iota + 1
	TypeReceivedAll
	TypeReceivedAdded
	TypeEntryDeleted
	TypeEntryUpdated
	TypeAPIError
)

func (t Type) String() string {
	switch t {
	case TypeLoadRequested:
		return "load-requested"
	case TypeReceivedAll:
		return "received-all"
	case TypeReceivedAdded:
		return "received-added"
	case TypeEntryDeleted:
		return "entry-deleted"
	case TypeEntryUpdated:
		return "entry-updated"
	case TypeAPIError:
		return "api-error"
	default:
		return "unknown"
	}
}

// Action is an immutable event record. The set of implementations is closed;
// only this package can add variants.
type Action interface {
	Type() Type
	sealed()
}

// LoadRequested announces that a fresh entry list has been requested.
type LoadRequested struct{}

// ReceivedAll carries the full entry list returned by the service.
type ReceivedAll struct {
	Entries []entry.Entry
}

// ReceivedAdded carries an entry the service just created.
type ReceivedAdded struct {
	Entry entry.Entry
}

// EntryDeleted carries the id of an entry the service removed.
type EntryDeleted struct {
	ID entry.ID
}

// EntryUpdated carries the new version of an existing entry, typically after a stop.
type EntryUpdated struct {
	Entry entry.Entry
}

// APIError carries a failed remote call or a rejected local input.
type APIError struct {
	Err error
}

func (LoadRequested) Type() Type { return TypeLoadRequested }
func (ReceivedAll) Type() Type   { return TypeReceivedAll }
func (ReceivedAdded) Type() Type { return TypeReceivedAdded }
func (EntryDeleted) Type() Type  { return TypeEntryDeleted }
func (EntryUpdated) Type() Type  { return TypeEntryUpdated }
func (APIError) Type() Type      { return TypeAPIError }

func (LoadRequested) sealed() {}
func (ReceivedAll) sealed()   {}
func (ReceivedAdded) sealed() {}
func (EntryDeleted) sealed()  {}
func (EntryUpdated) sealed()  {}
func (APIError) sealed()      {}

// Dispatcher is the dispatcher every timekeep store registers with.
type Dispatcher = flux.Dispatcher[Action]

// NewDispatcher returns an empty action dispatcher.
func NewDispatcher() *Dispatcher {
	return flux.NewDispatcher[Action]()
}
