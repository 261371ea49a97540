package record

// Ticket identifies one save of a record. Only the newest ticket may
// overwrite the snapshot, so overlapping saves resolve last-write-wins.
// Values holds the form values the save was built from.
type Ticket[T any] struct {
	Seq    uint64
	Record T
	Values Values
}

// BeginSave commits the live values and issues a ticket for the save.
func (r *Record[T]) BeginSave() Ticket[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.latest = r.seq
	committed := make(Values, len(r.values))
	for k, v := range r.values {
		committed[k] = v
	}
	return Ticket[T]{
		Seq:    r.seq,
		Record: r.schema.Build(r.initial, r.values),
		Values: committed,
	}
}

// Accept takes the saved value returned by the server as the new snapshot.
// Fields edited after t was issued keep their live value and stay dirty;
// the others are refreshed from saved. It returns false and leaves the
// record untouched when a newer save was started after t was issued.
func (r *Record[T]) Accept(t Ticket[T], saved T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.Seq != r.latest {
		return false
	}
	snapshot := saved
	r.initial = &snapshot
	for _, f := range r.schema.Fields() {
		if committed, ok := t.Values[f]; !ok || r.values[f] == committed {
			r.values[f] = r.schema.Value(r.initial, f)
		}
	}
	r.recompute()
	r.latest = 0
	return true
}

// Abandon clears the pending state of a failed save. Stale tickets are
// ignored.
func (r *Record[T]) Abandon(t Ticket[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.Seq == r.latest {
		r.latest = 0
	}
}

// Pending reports whether a save was started and not yet accepted.
func (r *Record[T]) Pending() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest != 0
}
