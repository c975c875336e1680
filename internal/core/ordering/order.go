// Package ordering implements the ordered collection shared by menu sections and menu items:
// dense integer positions within a scope, append at max+1, removal without renumbering,
// and reorder by full permutation.
package ordering

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// Record is an element of an ordered collection.
type Record interface {
	RecordID() string
	RecordPosition() int
	RecordCreatedAt() time.Time
}

// Scope identifies one ordered collection: the owner and the parent record
// (restaurant id for sections, section id for items).
type Scope struct {
	OwnerID  string
	ParentID string
}

func (s Scope) String() string {
	return s.OwnerID + ":" + s.ParentID
}

// Sort orders records by position, then creation time, then id. Duplicate positions
// produced by concurrent appends therefore still render deterministically.
func Sort[T Record](records []T) {
	slices.SortStableFunc(records, func(a, b T) int {
		if c := cmp.Compare(a.RecordPosition(), b.RecordPosition()); c != 0 {
			return c
		}
		if c := a.RecordCreatedAt().Compare(b.RecordCreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.RecordID(), b.RecordID())
	})
}

// NextPosition returns max(position)+1, or 0 for an empty collection.
func NextPosition[T Record](records []T) int {
	if len(records) == 0 {
		return 0
	}
	highest := records[0].RecordPosition()
	for _, r := range records[1:] {
		highest = max(highest, r.RecordPosition())
	}
	return highest + 1
}

// IDs returns the record ids in their current order.
func IDs[T Record](records []T) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.RecordID()
	}
	return ids
}

// ComputeReorder moves movedID to newIndex and returns the resulting order.
// newIndex is clamped to the list bounds. The input slice is not modified.
func ComputeReorder(ids []string, movedID string, newIndex int) ([]string, error) {
	from := slices.Index(ids, movedID)
	if from < 0 {
		return nil, fmt.Errorf("compute reorder: %w", domain.Invalid("id", "is not part of the collection"))
	}
	rest := slices.Delete(slices.Clone(ids), from, from+1)
	newIndex = min(max(newIndex, 0), len(rest))
	return slices.Insert(rest, newIndex, movedID), nil
}

// Assignment is the position one record receives in a reorder.
type Assignment struct {
	ID       string
	Position int
}

// Assign gives every id its index as position.
func Assign(ids []string) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{ID: id, Position: i}
	}
	return out
}

// CheckPermutation reports a validation error unless ids holds every id of current exactly once.
func CheckPermutation(current, ids []string) error {
	if len(ids) != len(current) {
		return domain.Invalid("ids", fmt.Sprintf("must list all %d records of the collection, got %d", len(current), len(ids)))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = false
	}
	for _, id := range ids {
		seen, ok := known[id]
		if !ok {
			return domain.Invalid("ids", fmt.Sprintf("unknown id %q", id))
		}
		if seen {
			return domain.Invalid("ids", fmt.Sprintf("duplicate id %q", id))
		}
		known[id] = true
	}
	return nil
}
