package recipe

import "github.com/google/uuid"

// Ref points at a recipe owned by the recipe service.
type Ref struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// Set is an in-memory lookup of already resolved recipes.
type Set map[uuid.UUID]Ref

func NewSet(refs ...*Ref) Set {
	s := make(Set, len(refs))
	for _, r := range refs {
		if r != nil {
			s[r.ID] = *r
		}
	}
	return s
}

// Resolve returns the refs for ids in order and the first id that is missing.
func (s Set) Resolve(ids []uuid.UUID) ([]Ref, uuid.UUID, bool) {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		ref, ok := s[id]
		if !ok {
			return nil, id, false
		}
		refs = append(refs, ref)
	}
	return refs, uuid.Nil, true
}
