package canon

import (
	"slices"
	"strings"

	"github.com/matzehuels/molcanon/pkg/errors"
)

// Priority selects the neighbors that form one traversal group. It receives
// the partition id of a neighbor and of the atom being expanded.
type Priority func(neighbor, current int) bool

// Priorities is the order in which neighbor groups are queued.
type Priorities []Priority

var (
	// Lower selects neighbors in a smaller partition.
	Lower Priority = func(nb, cur int) bool { return nb < cur }
	// Higher selects neighbors in a larger partition.
	Higher Priority = func(nb, cur int) bool { return nb > cur }
	// Same selects neighbors in the same partition.
	Same Priority = func(nb, cur int) bool { return nb == cur }
)

// DefaultPriorities queues lower, then higher, then equal partitions.
var DefaultPriorities = Priorities{Lower, Higher, Same}

// DefaultPriorityNames is the configuration form of DefaultPriorities.
var DefaultPriorityNames = []string{"lt", "gt", "eq"}

var priorityByName = map[string]Priority{
	"lt": Lower,
	"gt": Higher,
	"eq": Same,
}

// ParsePriorities converts names such as ["gt", "lt", "eq"] into Priorities.
// Each of "lt", "gt" and "eq" must appear exactly once so that every
// neighbor belongs to a group. An empty list yields DefaultPriorities.
func ParsePriorities(names []string) (Priorities, error) {
	if len(names) == 0 {
		return DefaultPriorities, nil
	}
	if len(names) != len(priorityByName) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"priorities must list lt, gt and eq exactly once, got %v", names)
	}
	var out Priorities
	var seen []string
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		p, ok := priorityByName[key]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown priority %q (want lt, gt or eq)", name)
		}
		if slices.Contains(seen, key) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "priority %q listed twice", name)
		}
		seen = append(seen, key)
		out = append(out, p)
	}
	return out, nil
}
