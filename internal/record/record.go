// Package record tracks edits to a domain record through plain string form
// fields.
//
// A Record holds a snapshot of the record as loaded and the live value of
// every form field. The set of dirty fields is recomputed on every change, so
// it always equals the fields whose live value differs from the snapshot.
package record

import (
	"sync"
)

// Field names a form field of a record.
type Field string

// Values maps each tracked field to its live string value.
type Values map[Field]string

// Schema describes how a record type maps to form fields.
type Schema[T any] interface {
	// Fields lists the tracked fields in display order.
	Fields() []Field
	// Value renders one field of rec as a form string. rec is nil in
	// create mode, where every field is expected to render as "".
	Value(rec *T, f Field) string
	// Build produces a full record from the form values. Attributes that are
	// not form fields (ids, timestamps) are taken from base when it is set.
	Build(base *T, v Values) T
}

// Record is the editable state of one record.
type Record[T any] struct {
	mu sync.RWMutex

	schema  Schema[T]
	initial *T
	values  Values
	dirty   map[Field]bool

	seq    uint64
	latest uint64
}

// New creates a record state from an existing record, or from defaults when
// initial is nil.
func New[T any](schema Schema[T], initial *T) *Record[T] {
	r := &Record[T]{schema: schema}
	r.init(initial)
	return r
}

func (r *Record[T]) init(initial *T) {
	if initial != nil {
		snapshot := *initial
		r.initial = &snapshot
	} else {
		r.initial = nil
	}

	r.values = make(Values, len(r.schema.Fields()))
	for _, f := range r.schema.Fields() {
		r.values[f] = r.schema.Value(r.initial, f)
	}
	r.recompute()
}

func (r *Record[T]) recompute() {
	r.dirty = make(map[Field]bool)
	for _, f := range r.schema.Fields() {
		if r.values[f] != r.schema.Value(r.initial, f) {
			r.dirty[f] = true
		}
	}
}

func (r *Record[T]) tracks(f Field) bool {
	_, ok := r.values[f]
	return ok
}

// Reset re-initializes the record from a new snapshot, typically the record
// returned by the server after a save.
func (r *Record[T]) Reset(initial *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init(initial)
}

// Initial returns a copy of the snapshot, or nil in create mode.
func (r *Record[T]) Initial() *T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.initial == nil {
		return nil
	}
	snapshot := *r.initial
	return &snapshot
}

// IsNew reports whether the record was created without a snapshot.
func (r *Record[T]) IsNew() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initial == nil
}

// Fields returns the tracked fields in display order.
func (r *Record[T]) Fields() []Field {
	return r.schema.Fields()
}

// Get returns the live value of a field.
func (r *Record[T]) Get(f Field) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[f]
}

// Set overwrites the live value of a field and recomputes the dirty set.
// Fields the schema does not track are ignored.
func (r *Record[T]) Set(f Field, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.tracks(f) {
		return
	}
	r.values[f] = value
	r.recompute()
}

// Revert restores a field to its snapshot value.
func (r *Record[T]) Revert(f Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.tracks(f) {
		return
	}
	r.values[f] = r.schema.Value(r.initial, f)
	r.recompute()
}

// Recompute rebuilds the dirty set from the live values and the snapshot.
func (r *Record[T]) Recompute() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recompute()
}

// IsDirty reports whether a field differs from the snapshot.
func (r *Record[T]) IsDirty(f Field) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dirty[f]
}

// Dirty returns the dirty fields in display order.
func (r *Record[T]) Dirty() []Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Field
	for _, f := range r.schema.Fields() {
		if r.dirty[f] {
			out = append(out, f)
		}
	}
	return out
}

// HasChanges reports whether any field is dirty.
func (r *Record[T]) HasChanges() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dirty) > 0
}

// Values returns a copy of the live values.
func (r *Record[T]) Values() Values {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(Values, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Commit builds a full record from the live values. It does not clear the
// dirty state; that happens when the saved record is fed back through Reset
// or Accept.
func (r *Record[T]) Commit() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schema.Build(r.initial, r.values)
}
