package models

import "encoding/json"

// TagSet is a set of tag identifiers that remembers insertion order for display.
// The zero value is an empty set ready to use.
type TagSet struct {
	order []string
	index map[string]struct{}
}

// NewTagSet builds a set from tags, dropping duplicates
func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, tag := range tags {
		s.Add(tag)
	}
	return s
}

// Len returns the number of tags in the set
func (s TagSet) Len() int {
	return len(s.order)
}

// Has reports whether tag is in the set
func (s TagSet) Has(tag string) bool {
	_, ok := s.index[tag]
	return ok
}

// Add inserts tag and reports whether the set changed
func (s *TagSet) Add(tag string) bool {
	if s.Has(tag) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[tag] = struct{}{}
	s.order = append(s.order, tag)
	return true
}

// Remove deletes tag and reports whether the set changed
func (s *TagSet) Remove(tag string) bool {
	if !s.Has(tag) {
		return false
	}
	delete(s.index, tag)
	for i, existing := range s.order {
		if existing == tag {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle removes tag if present and adds it otherwise.
// It returns whether tag is selected afterwards.
func (s *TagSet) Toggle(tag string) bool {
	if s.Remove(tag) {
		return false
	}
	s.Add(tag)
	return true
}

// Values returns the tags in insertion order. The slice is never nil.
func (s TagSet) Values() []string {
	values := make([]string, len(s.order))
	copy(values, s.order)
	return values
}

// Clone returns an independent copy of the set
func (s TagSet) Clone() TagSet {
	return NewTagSet(s.order...)
}

// Equal reports whether both sets hold the same tags, ignoring order
func (s TagSet) Equal(other TagSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, tag := range s.order {
		if !other.Has(tag) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an array in insertion order
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes an array, keeping the first occurrence of duplicates
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
