// Package document holds the draft being edited in a session.
package document

const updatedPrefix = "Document has been updated successfully! The current content is:\n"

// Store owns the current draft text. It is created empty once per session
// and handed to the tools that mutate it; turns are serialized by the
// surfaces, so Store itself does no locking.
type Store struct {
	content string
}

func NewStore() *Store {
	return &Store{}
}

// Replace overwrites the draft and returns a confirmation carrying the new content.
func (s *Store) Replace(content string) string {
	s.content = content
	return updatedPrefix + content
}

// Read returns the current draft.
func (s *Store) Read() string {
	return s.content
}
