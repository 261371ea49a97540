package record

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTicket_AcceptLatest(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())
	r.Set(fieldTitle, "Saved title")

	ticket := r.BeginSave()
	if ticket.Record.Title != "Saved title" {
		t.Errorf("Expected committed title in ticket, got %q", ticket.Record.Title)
	}
	if !r.Pending() {
		t.Error("Expected pending save")
	}

	saved := ticket.Record
	saved.Stamp = "server"
	if !r.Accept(ticket, saved) {
		t.Fatal("Expected latest ticket to be accepted")
	}
	if r.HasChanges() {
		t.Errorf("Expected clean record after accept, got %v", r.Dirty())
	}
	if r.Pending() {
		t.Error("Expected no pending save after accept")
	}
	if r.Initial().Stamp != "server" {
		t.Errorf("Expected snapshot from server, got %q", r.Initial().Stamp)
	}
}

func TestTicket_EditDuringSaveSurvives(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())
	r.Set(fieldTitle, "v2")

	ticket := r.BeginSave()
	r.Set(fieldTitle, "v2 plus typed while saving")

	saved := ticket.Record
	saved.Stamp = "server"
	if !r.Accept(ticket, saved) {
		t.Fatal("Expected latest ticket to be accepted")
	}
	if got := r.Get(fieldTitle); got != "v2 plus typed while saving" {
		t.Errorf("Expected edit typed during the save to survive, got %q", got)
	}
	if !r.IsDirty(fieldTitle) {
		t.Error("Expected the newer edit to stay dirty")
	}
	if r.Initial().Title != "v2" || r.Initial().Stamp != "server" {
		t.Errorf("Expected saved record as snapshot, got %+v", r.Initial())
	}
}

func TestTicket_UntouchedFieldsTakeServerValue(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())
	r.Set(fieldTitle, "  padded  ")
	ticket := r.BeginSave()
	r.Set(fieldPriority, "9")

	saved := ticket.Record
	saved.Title = "padded"
	if !r.Accept(ticket, saved) {
		t.Fatal("Expected latest ticket to be accepted")
	}
	if got := r.Get(fieldTitle); got != "padded" {
		t.Errorf("Expected server title 'padded', got %q", got)
	}
	if diff := cmp.Diff([]Field{fieldPriority}, r.Dirty()); diff != "" {
		t.Errorf("dirty mismatch (-want +got):\n%s", diff)
	}
}

func TestTicket_StaleResponseDropped(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())

	r.Set(fieldTitle, "first")
	first := r.BeginSave()
	r.Set(fieldTitle, "second")
	second := r.BeginSave()

	// Responses arrive out of order.
	if !r.Accept(second, second.Record) {
		t.Fatal("Expected second ticket to be accepted")
	}
	if r.Accept(first, first.Record) {
		t.Error("Expected stale first ticket to be rejected")
	}
	if r.Get(fieldTitle) != "second" {
		t.Errorf("Expected last write to win, got %q", r.Get(fieldTitle))
	}
}

func TestTicket_OlderResponseBeforeNewer(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())

	r.Set(fieldTitle, "first")
	first := r.BeginSave()
	r.Set(fieldTitle, "second")
	second := r.BeginSave()

	if r.Accept(first, first.Record) {
		t.Error("Expected first ticket to be rejected once a newer save started")
	}
	if !r.IsDirty(fieldTitle) {
		t.Error("Expected live edits to survive the stale response")
	}
	if !r.Accept(second, second.Record) {
		t.Error("Expected second ticket to be accepted")
	}
}

func TestTicket_Abandon(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())
	r.Set(fieldTitle, "x")
	ticket := r.BeginSave()
	r.Abandon(ticket)

	if r.Pending() {
		t.Error("Expected no pending save after abandon")
	}
	if !r.IsDirty(fieldTitle) {
		t.Error("Expected edits to stay dirty after a failed save")
	}
}

func TestRecord_ConcurrentAccess(t *testing.T) {
	r := New[note](noteSchema{}, sampleNote())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.Set(fieldTitle, "concurrent")
		}()
		go func() {
			defer wg.Done()
			_ = r.Dirty()
		}()
		go func() {
			defer wg.Done()
			tk := r.BeginSave()
			r.Accept(tk, tk.Record)
		}()
	}
	wg.Wait()
}
