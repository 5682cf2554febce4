// Package groups splits students into study groups: branch-wise by roll
// number pattern, uniformly into k groups, or mixing branches evenly across
// k groups.
package groups

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tanmayk/meritalloc/internal/core/allocate"
)

// rollPattern captures the two-letter branch code embedded in a roll number
// like 2021CS07.
var rollPattern = regexp.MustCompile(`^[0-9]{4}([A-Za-z]{2})[0-9]{2}`)

// Branch is one branch's students in input order.
type Branch struct {
	Code     string
	Students []allocate.StudentRecord
}

// Census is the outcome of a branch split: branches keyed by code plus the
// rolls that matched no branch pattern. Invalid rolls are reported, not
// fatal; their rows are excluded from grouping.
type Census struct {
	Branches     map[string][]allocate.StudentRecord
	InvalidRolls []string
}

// Group is an ordered set of students with per-branch counts.
type Group struct {
	Students []allocate.StudentRecord
}

// SplitByBranch buckets students by the branch code in their roll number.
// Codes are uppercased so 2021cs07 and 2021CS07 land in the same branch.
func SplitByBranch(students []allocate.StudentRecord) Census {
	census := Census{Branches: make(map[string][]allocate.StudentRecord)}
	for _, s := range students {
		m := rollPattern.FindStringSubmatch(s.Roll)
		if m == nil {
			census.InvalidRolls = append(census.InvalidRolls, s.Roll)
			continue
		}
		code := strings.ToUpper(m[1])
		census.Branches[code] = append(census.Branches[code], s)
	}
	return census
}

// bySize returns the branches largest-first; ties break on code so the
// ordering is deterministic.
func (c Census) bySize() []Branch {
	branches := make([]Branch, 0, len(c.Branches))
	for code, students := range c.Branches {
		branches = append(branches, Branch{Code: code, Students: students})
	}
	sort.Slice(branches, func(a, b int) bool {
		if len(branches[a].Students) != len(branches[b].Students) {
			return len(branches[a].Students) > len(branches[b].Students)
		}
		return branches[a].Code < branches[b].Code
	})
	return branches
}

// Total returns the number of students that matched a branch.
func (c Census) Total() int {
	n := 0
	for _, students := range c.Branches {
		n += len(students)
	}
	return n
}

// DistributeUniform concatenates the branches largest-first and cuts the
// sequence into k contiguous groups. The first total mod k groups take one
// extra student, so group sizes differ by at most one.
func DistributeUniform(c Census, k int) []Group {
	merged := make([]allocate.StudentRecord, 0, c.Total())
	for _, b := range c.bySize() {
		merged = append(merged, b.Students...)
	}

	size := len(merged) / k
	remainder := len(merged) % k

	groups := make([]Group, k)
	cursor := 0
	for i := range groups {
		end := cursor + size
		if i < remainder {
			end++
		}
		groups[i].Students = append(groups[i].Students, merged[cursor:end]...)
		cursor = end
	}
	return groups
}

// DistributeMixed fills each group to the base size taking one student per
// branch in rotation, then spreads the leftovers round-robin across groups.
// Groups end up branch-mixed rather than branch-contiguous.
func DistributeMixed(c Census, k int) []Group {
	size := c.Total() / k

	pools := c.bySize()
	groups := make([]Group, k)

	for i := range groups {
		for len(groups[i].Students) < size && len(pools) > 0 {
			filled := false
			for pi := 0; pi < len(pools) && len(groups[i].Students) < size; pi++ {
				groups[i].Students = append(groups[i].Students, pools[pi].Students[0])
				pools[pi].Students = pools[pi].Students[1:]
				filled = true
			}
			// Drop exhausted pools after each rotation.
			live := pools[:0]
			for _, p := range pools {
				if len(p.Students) > 0 {
					live = append(live, p)
				}
			}
			pools = live
			if !filled {
				break
			}
		}
	}

	var leftovers []allocate.StudentRecord
	for _, p := range pools {
		leftovers = append(leftovers, p.Students...)
	}
	for i, s := range leftovers {
		groups[i%k].Students = append(groups[i%k].Students, s)
	}
	return groups
}

// GroupCounts tabulates per-branch membership of one group.
func GroupCounts(g Group) map[string]int {
	counts := make(map[string]int)
	for _, s := range g.Students {
		m := rollPattern.FindStringSubmatch(s.Roll)
		if m != nil {
			counts[strings.ToUpper(m[1])]++
		}
	}
	return counts
}

// BranchCodes returns every branch code seen across the groups, sorted.
func BranchCodes(groups []Group) []string {
	seen := make(map[string]struct{})
	for _, g := range groups {
		for code := range GroupCounts(g) {
			seen[code] = struct{}{}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
