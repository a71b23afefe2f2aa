package feed

import (
	"sync"
)

// State is where an upload-then-record action stands for one lab id.
type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateInserting State = "inserting"
	StateFailed    State = "failed"
)

func (s State) inFlight() bool {
	return s == StateUploading || s == StateInserting
}

// Workflow tracks the upload-then-record state per lab id and refuses a second
// action while one is uploading or inserting. Anonymous sessions have no
// stable identity to key on and are not tracked.
type Workflow struct {
	mu     sync.Mutex
	states map[string]State
}

func NewWorkflow() *Workflow {
	return &Workflow{states: make(map[string]State)}
}

// Begin starts an action for identity, in StateUploading when it carries a
// file and StateInserting otherwise.
func (w *Workflow) Begin(identity string, withUpload bool) error {
	if identity == "" {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.states[identity].inFlight() {
		return ErrBusy
	}
	if withUpload {
		w.states[identity] = StateUploading
	} else {
		w.states[identity] = StateInserting
	}
	return nil
}

// Advance moves identity to the next state. Reaching idle forgets the entry.
func (w *Workflow) Advance(identity string, to State) {
	if identity == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if to == StateIdle {
		delete(w.states, identity)
		return
	}
	w.states[identity] = to
}

func (w *Workflow) State(identity string) State {
	if identity == "" {
		return StateIdle
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.states[identity]; ok {
		return s
	}
	return StateIdle
}
