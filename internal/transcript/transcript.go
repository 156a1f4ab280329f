// Package transcript keeps the ordered conversation history that is replayed
// to the model on every invocation.
package transcript

// Transcript is an append-only, insertion-ordered list of messages.
// The system instruction is never stored here.
type Transcript struct {
	messages []Message
}

func New() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(msgs ...Message) {
	for _, m := range msgs {
		t.messages = append(t.messages, m.clone())
	}
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the history.
func (t *Transcript) Messages() []Message {
	return t.Since(0)
}

// Since returns a copy of the messages appended at or after index i.
func (t *Transcript) Since(i int) []Message {
	if i < 0 {
		i = 0
	}
	if i >= len(t.messages) {
		return nil
	}
	out := make([]Message, 0, len(t.messages)-i)
	for _, m := range t.messages[i:] {
		out = append(out, m.clone())
	}
	return out
}
