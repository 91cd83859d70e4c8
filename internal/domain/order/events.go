package order

import "fmt"

// ChangeType tags a ChangeEvent.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

func (t ChangeType) IsValid() bool {
	return t == ChangeInsert || t == ChangeUpdate || t == ChangeDelete
}

// ChangeEvent is one mutation of the orders table. Insert and Update carry the
// full record; Delete carries only the ID. Events have no ordering other than
// the order they are delivered in.
type ChangeEvent struct {
	Type   ChangeType
	ID     string
	Record *Order
}

func NewInsertEvent(o *Order) ChangeEvent {
	return ChangeEvent{Type: ChangeInsert, ID: o.ID(), Record: o.Clone()}
}

func NewUpdateEvent(o *Order) ChangeEvent {
	return ChangeEvent{Type: ChangeUpdate, ID: o.ID(), Record: o.Clone()}
}

func NewDeleteEvent(orderID string) ChangeEvent {
	return ChangeEvent{Type: ChangeDelete, ID: orderID}
}

// Validate checks that the event carries what its type requires.
func (e ChangeEvent) Validate() error {
	if !e.Type.IsValid() {
		return fmt.Errorf("unknown change type %q", e.Type)
	}
	if e.ID == "" {
		return fmt.Errorf("%s event without order id", e.Type)
	}
	if e.Type != ChangeDelete {
		if e.Record == nil {
			return fmt.Errorf("%s event without record", e.Type)
		}
		if e.Record.ID() != e.ID {
			return fmt.Errorf("%s event id %s does not match record %s", e.Type, e.ID, e.Record.ID())
		}
	}
	return nil
}
