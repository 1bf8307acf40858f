package roster

import (
	"sort"
	"strings"

	"github.com/skusdev/profile/internal/domain"
)

// PageSize is the fixed number of members shown per page.
const PageSize = 10

// FilterAll is the filter value meaning "no restriction". An empty string is
// treated the same way.
const FilterAll = "All"

type SortKey string

const (
	SortName          SortKey = "name"
	SortDistrict      SortKey = "district"
	SortGender        SortKey = "gender"
	SortStatus        SortKey = "status"
	SortJoined        SortKey = "joined"
	SortContributions SortKey = "contributions"
	SortAge           SortKey = "age"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ViewParams selects and orders the displayed slice of the member collection.
type ViewParams struct {
	Search   string
	District string
	Gender   string
	Tag      string
	SortKey  SortKey
	SortDir  SortDir
	Page     int
}

// View is one page of the filtered, sorted collection.
type View struct {
	Items      []domain.Member `json:"items"`
	TotalCount int             `json:"total_count"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
}

// BuildView is a pure projection of (members, params): it filters, sorts and
// paginates deterministically, with no hidden state.
//
// Filters combine with AND; the search narrows further, it never substitutes
// for them. TotalPages is at least 1 even when nothing matches, and the page
// is clamped into [1, TotalPages] so the view can never point past the end.
func BuildView(members []domain.Member, p ViewParams) View {
	filtered := Filter(members, p)

	sortMembers(filtered, p.SortKey, p.SortDir)

	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return View{
		Items:      filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
	}
}

// Filter returns the members matching every active predicate, in their
// original order. Used by BuildView and by the CSV export, which wants the
// whole filtered set rather than one page.
func Filter(members []domain.Member, p ViewParams) []domain.Member {
	needle := strings.ToLower(p.Search)
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if !isAll(p.District) && m.District != p.District {
			continue
		}
		if !isAll(p.Gender) && string(m.Gender) != p.Gender {
			continue
		}
		if !isAll(p.Tag) && !m.HasTag(p.Tag) {
			continue
		}
		if needle != "" && !matchesSearch(&m, needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FilterSorted returns the whole filtered set in the requested sort order,
// without pagination. The CSV export wants every visible record.
func FilterSorted(members []domain.Member, p ViewParams) []domain.Member {
	filtered := Filter(members, p)
	sortMembers(filtered, p.SortKey, p.SortDir)
	return filtered
}

// ResetPage returns next with its page reset to 1 when any filter, search or
// sort parameter differs from prev. Changing what is shown always starts the
// operator back at the first page.
func ResetPage(prev, next ViewParams) ViewParams {
	prev.Page = 0
	compare := next
	compare.Page = 0
	if prev != compare {
		next.Page = 1
	}
	return next
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}

func matchesSearch(m *domain.Member, needle string) bool {
	return strings.Contains(strings.ToLower(m.FullName()), needle) ||
		strings.Contains(strings.ToLower(m.Email), needle)
}

// sortMembers sorts in place. The sort is stable: ties preserve the pre-sort
// relative order under both directions.
func sortMembers(members []domain.Member, key SortKey, dir SortDir) {
	if key == "" {
		return
	}
	less := lessFunc(key)
	if less == nil {
		return
	}
	if dir == SortDesc {
		inner := less
		less = func(a, b *domain.Member) bool { return inner(b, a) }
	}
	sort.SliceStable(members, func(i, j int) bool {
		return less(&members[i], &members[j])
	})
}

func lessFunc(key SortKey) func(a, b *domain.Member) bool {
	switch key {
	case SortName:
		return func(a, b *domain.Member) bool { return a.FullName() < b.FullName() }
	case SortDistrict:
		return func(a, b *domain.Member) bool { return a.District < b.District }
	case SortGender:
		return func(a, b *domain.Member) bool { return a.Gender < b.Gender }
	case SortStatus:
		// Active sorts before inactive.
		return func(a, b *domain.Member) bool { return a.Active() && !b.Active() }
	case SortJoined:
		return func(a, b *domain.Member) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortContributions:
		return func(a, b *domain.Member) bool { return a.Contributions < b.Contributions }
	case SortAge:
		return func(a, b *domain.Member) bool { return a.Age < b.Age }
	}
	return nil
}
