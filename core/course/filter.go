package course

import (
	"sort"
	"strings"
)

// Sort modes for the catalog projection.
type Sort int

const (
	SortNewest Sort = iota
	SortTopRated
	SortTitle
	SortPriceAsc
	SortPriceDesc
)

// CategoryEnrolled is a pseudo-category selecting only courses the viewer is
// enrolled in.
const CategoryEnrolled = "enrolled"

// Filter describes the catalog projection: a case-insensitive substring
// search over title and description, intersected with an exact category
// match, then ordered by the sort mode.
type Filter struct {
	Search   string
	Category string
	Sort     Sort
}

// Apply produces a filtered, sorted projection of courses. It is a pure
// function: the input slice is never mutated.
func Apply(courses []Course, f Filter) []Course {
	out := make([]Course, 0, len(courses))

	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, c := range courses {
		if needle != "" {
			title := strings.ToLower(c.Title)
			desc := strings.ToLower(c.Description)
			if !strings.Contains(title, needle) && !strings.Contains(desc, needle) {
				continue
			}
		}

		switch f.Category {
		case "":
		case CategoryEnrolled:
			if !c.IsEnrolled {
				continue
			}
		default:
			if c.Category != f.Category {
				continue
			}
		}

		out = append(out, c)
	}

	sort.SliceStable(out, less(f.Sort, out))
	return out
}

func less(mode Sort, cs []Course) func(i, j int) bool {
	switch mode {
	case SortTopRated:
		return func(i, j int) bool {
			if cs[i].CompletionRate != cs[j].CompletionRate {
				return cs[i].CompletionRate > cs[j].CompletionRate
			}
			return cs[i].EnrollmentCount > cs[j].EnrollmentCount
		}
	case SortTitle:
		return func(i, j int) bool {
			return cs[i].Title < cs[j].Title
		}
	case SortPriceAsc:
		return func(i, j int) bool {
			return cs[i].Price < cs[j].Price
		}
	case SortPriceDesc:
		return func(i, j int) bool {
			return cs[i].Price > cs[j].Price
		}
	default:
		// Newest first; creation-time ties break by descending id.
		return func(i, j int) bool {
			if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
				return cs[i].CreatedAt.After(cs[j].CreatedAt)
			}
			return cs[i].ID > cs[j].ID
		}
	}
}
