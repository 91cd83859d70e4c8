package services

import (
	"github.com/fylo-cloud/fylo/internal/domain/order"
)

// orderView is the ordered, id-unique list one viewer sees, newest activity
// first. It is not safe for concurrent use; the reconciler serialises access.
type orderView struct {
	records []*order.Order
	ids     map[string]struct{}
	// deleted holds ids removed while the snapshot is outstanding, so a late
	// snapshot cannot bring them back. nil once the snapshot is in.
	deleted map[string]struct{}
}

func newOrderView() *orderView {
	return &orderView{
		ids:     make(map[string]struct{}),
		deleted: make(map[string]struct{}),
	}
}

// apply merges one change event. Insert and Update move the record to the
// front; Delete removes it and is a no-op for unknown ids.
func (v *orderView) apply(ev order.ChangeEvent) {
	switch ev.Type {
	case order.ChangeInsert, order.ChangeUpdate:
		v.remove(ev.ID)
		v.records = append(v.records, nil)
		copy(v.records[1:], v.records)
		v.records[0] = ev.Record
		v.ids[ev.ID] = struct{}{}
		if v.deleted != nil {
			delete(v.deleted, ev.ID)
		}
	case order.ChangeDelete:
		v.remove(ev.ID)
		if v.deleted != nil {
			v.deleted[ev.ID] = struct{}{}
		}
	}
}

// seed appends snapshot records behind everything already applied. Records
// already present or deleted since subscribing are skipped; within the
// snapshot the first occurrence of an id wins.
func (v *orderView) seed(snapshot []*order.Order) (added int) {
	for _, o := range snapshot {
		if o == nil {
			continue
		}
		id := o.ID()
		if _, ok := v.ids[id]; ok {
			continue
		}
		if _, ok := v.deleted[id]; ok {
			continue
		}
		v.records = append(v.records, o.Clone())
		v.ids[id] = struct{}{}
		added++
	}
	v.deleted = nil
	return added
}

func (v *orderView) remove(id string) {
	if _, ok := v.ids[id]; !ok {
		return
	}
	for i, o := range v.records {
		if o.ID() == id {
			copy(v.records[i:], v.records[i+1:])
			v.records[len(v.records)-1] = nil
			v.records = v.records[:len(v.records)-1]
			break
		}
	}
	delete(v.ids, id)
}

func (v *orderView) snapshot() []*order.Order {
	out := make([]*order.Order, len(v.records))
	for i, o := range v.records {
		out[i] = o.Clone()
	}
	return out
}
