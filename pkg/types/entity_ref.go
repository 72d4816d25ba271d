package types

import "strings"

// EntityRef is a polymorphic pointer (type + id) to an arbitrary domain
// entity. It is a weak lookup key: it never owns the referenced entity and
// equality is plain type+id equality. The zero value references nothing.
type EntityRef struct {
	Type string
	ID   string
}

// NewEntityRef builds a reference from a type identifier and a key.
func NewEntityRef(entityType, id string) EntityRef {
	return EntityRef{
		Type: strings.TrimSpace(entityType),
		ID:   strings.TrimSpace(id),
	}
}

// ActivityRef implements Entity so a bare reference can stand in for a live
// entity in logger calls.
func (r EntityRef) ActivityRef() EntityRef { return r }

// IsZero reports whether the reference points at nothing. A reference only
// counts as existing when both the type and the id are set.
func (r EntityRef) IsZero() bool {
	return r.Type == "" || r.ID == ""
}

// Key encodes the reference as "id|type". The encoding matches the keys used
// by the filter-option queries so UI dropdown selections round-trip.
func (r EntityRef) Key() string {
	if r.IsZero() {
		return ""
	}
	return r.ID + "|" + r.Type
}

// ParseRefKey decodes an "id|type" key back into a reference. Returns a zero
// reference when the key is malformed.
func ParseRefKey(key string) EntityRef {
	id, entityType, ok := strings.Cut(key, "|")
	if !ok {
		return EntityRef{}
	}
	return NewEntityRef(entityType, id)
}

// RefOf extracts a usable reference from an entity, returning a zero ref for
// nil entities or entities whose reference is incomplete.
func RefOf(entity Entity) EntityRef {
	if entity == nil {
		return EntityRef{}
	}
	ref := entity.ActivityRef()
	if ref.IsZero() {
		return EntityRef{}
	}
	return ref
}
