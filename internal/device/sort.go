package device

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects the process column a table is ordered by.
type SortField int

const (
	SortByPID SortField = iota
	SortByName
	SortByCPU
	SortByMemory
	SortByStatus
)

func (f SortField) String() string {
	switch f {
	case SortByPID:
		return "PID"
	case SortByName:
		return "Name"
	case SortByCPU:
		return "CPU %"
	case SortByMemory:
		return "Memory (MB)"
	case SortByStatus:
		return "Status"
	default:
		return "?"
	}
}

// SortDirection is ascending or descending.
type SortDirection int

const (
	Descending SortDirection = iota
	Ascending
)

// SortState is the column/direction pair a process table is showing.
type SortState struct {
	Field SortField
	Dir   SortDirection
}

// DefaultSort orders by CPU, highest first.
func DefaultSort() SortState {
	return SortState{Field: SortByCPU, Dir: Descending}
}

// Toggle applies a header selection: the same field flips direction,
// a different field always starts descending.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		if s.Dir == Ascending {
			s.Dir = Descending
		} else {
			s.Dir = Ascending
		}
		return s
	}
	return SortState{Field: field, Dir: Descending}
}

// SortProcesses returns a sorted copy of ps. The sort is stable in both
// directions: rows with equal keys keep their input order.
func SortProcesses(ps []Process, st SortState) []Process {
	out := slices.Clone(ps)
	cmp := comparator(st.Field)
	slices.SortStableFunc(out, func(a, b Process) int {
		c := cmp(a, b)
		if st.Dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(field SortField) func(a, b Process) int {
	switch field {
	case SortByName:
		col := collate.New(language.English)
		return func(a, b Process) int { return col.CompareString(a.Name, b.Name) }
	case SortByStatus:
		col := collate.New(language.English)
		return func(a, b Process) int { return col.CompareString(string(a.Status), string(b.Status)) }
	case SortByCPU:
		return func(a, b Process) int { return sign(a.CPU - b.CPU) }
	case SortByMemory:
		return func(a, b Process) int { return sign(a.MemoryMB - b.MemoryMB) }
	default:
		return func(a, b Process) int { return sign(float64(a.PID - b.PID)) }
	}
}

func sign(d float64) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

// FilterProcesses keeps rows whose name contains query (case-insensitive)
// or whose PID contains it as a decimal substring. An empty query keeps
// everything.
func FilterProcesses(ps []Process, query string) []Process {
	if query == "" {
		return ps
	}
	q := strings.ToLower(query)
	var out []Process
	for _, p := range ps {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strconv.Itoa(p.PID), query) {
			out = append(out, p)
		}
	}
	return out
}
