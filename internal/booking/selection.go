package booking

import "encoding/json"

// Selection is the ordered set of seat IDs the user has picked but not yet
// submitted.  It never holds duplicates and keeps first-pick order, which
// is the order seats are sent to the backend.  The zero value is empty and
// ready to use.
type Selection struct {
	ids   []string
	index map[string]int
}

// NewSelection returns a selection holding ids, duplicates dropped.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was absent.
func (s *Selection) Add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *Selection) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return true
}

// Toggle flips membership of id and reports whether id is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len is the number of selected seats.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected IDs in pick order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.index = nil
}

func (s *Selection) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

func (s *Selection) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	s.Clear()
	for _, id := range ids {
		s.Add(id)
	}
	return nil
}
