package roster_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/skusdev/profile/internal/domain"
	"github.com/skusdev/profile/internal/roster"
)

func fixtureMembers(n int) []domain.Member {
	members := make([]domain.Member, 0, n)
	for i := 0; i < n; i++ {
		gender := domain.GenderMale
		if i%2 == 1 {
			gender = domain.GenderFemale
		}
		m := domain.Member{
			ID:            int64(i + 1),
			FirstName:     fmt.Sprintf("First%02d", i),
			LastName:      fmt.Sprintf("Last%02d", i),
			Email:         fmt.Sprintf("member%02d@example.com", i),
			Gender:        gender,
			District:      domain.Districts[i%len(domain.Districts)],
			Age:           20 + i,
			CreatedAt:     testNow.AddDate(0, 0, -i),
			Contributions: i % 3,
			Tags:          []string{},
		}
		if i%4 == 0 {
			m.Tags = []string{"Volunteer"}
		}
		members = append(members, m)
	}
	return members
}

func TestBuildView_FiltersCombineWithAND(t *testing.T) {
	members := fixtureMembers(24)
	p := roster.ViewParams{
		District: domain.Districts[0],
		Gender:   string(domain.GenderMale),
		Tag:      "Volunteer",
	}

	filtered := roster.Filter(members, p)
	if len(filtered) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, m := range filtered {
		if m.District != p.District {
			t.Fatalf("member %d fails district predicate", m.ID)
		}
		if string(m.Gender) != p.Gender {
			t.Fatalf("member %d fails gender predicate", m.ID)
		}
		if !m.HasTag("Volunteer") {
			t.Fatalf("member %d fails tag predicate", m.ID)
		}
	}

	// Every filtered member must come from the input set.
	byID := make(map[int64]bool)
	for _, m := range members {
		byID[m.ID] = true
	}
	for _, m := range filtered {
		if !byID[m.ID] {
			t.Fatalf("member %d not in the source collection", m.ID)
		}
	}

	// And the complement must fail at least one predicate.
	kept := make(map[int64]bool)
	for _, m := range filtered {
		kept[m.ID] = true
	}
	for _, m := range members {
		satisfiesAll := m.District == p.District &&
			string(m.Gender) == p.Gender && m.HasTag("Volunteer")
		if satisfiesAll != kept[m.ID] {
			t.Fatalf("member %d: predicate/filter mismatch", m.ID)
		}
	}
}

func TestBuildView_SearchIsCaseInsensitiveOverNameAndEmail(t *testing.T) {
	members := fixtureMembers(10)

	byName := roster.Filter(members, roster.ViewParams{Search: "fIrSt03"})
	if len(byName) != 1 || byName[0].ID != 4 {
		t.Fatalf("expected exactly member 4 by name search, got %v", byName)
	}

	byEmail := roster.Filter(members, roster.ViewParams{Search: "MEMBER07@"})
	if len(byEmail) != 1 || byEmail[0].ID != 8 {
		t.Fatalf("expected exactly member 8 by email search, got %v", byEmail)
	}
}

func TestBuildView_SearchNarrowsFilters(t *testing.T) {
	members := fixtureMembers(24)
	p := roster.ViewParams{
		District: domain.Districts[0],
		Search:   "member04",
	}
	filtered := roster.Filter(members, p)
	for _, m := range filtered {
		if m.District != p.District {
			t.Fatalf("search substituted for the district filter on member %d", m.ID)
		}
		if !strings.Contains(m.Email, "member04") {
			t.Fatalf("member %d does not match the search", m.ID)
		}
	}
}

func TestBuildView_AllFilterValueMeansNoRestriction(t *testing.T) {
	members := fixtureMembers(12)
	p := roster.ViewParams{District: roster.FilterAll, Gender: roster.FilterAll, Tag: roster.FilterAll}
	if got := len(roster.Filter(members, p)); got != 12 {
		t.Fatalf("expected all 12 members with All filters, got %d", got)
	}
}

func TestBuildView_PaginationIsComplete(t *testing.T) {
	members := fixtureMembers(33)
	p := roster.ViewParams{SortKey: roster.SortName, SortDir: roster.SortAsc}

	first := roster.BuildView(members, p)
	if first.TotalCount != 33 {
		t.Fatalf("expected 33 total, got %d", first.TotalCount)
	}
	if first.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", first.TotalPages)
	}

	var seen []int64
	for page := 1; page <= first.TotalPages; page++ {
		p.Page = page
		v := roster.BuildView(members, p)
		for _, m := range v.Items {
			seen = append(seen, m.ID)
		}
	}
	if len(seen) != 33 {
		t.Fatalf("pages concatenate to %d items, want 33", len(seen))
	}
	unique := make(map[int64]bool)
	for _, id := range seen {
		if unique[id] {
			t.Fatalf("id %d appears on more than one page", id)
		}
		unique[id] = true
	}
}

func TestBuildView_EmptySetStillHasOnePage(t *testing.T) {
	v := roster.BuildView(nil, roster.ViewParams{Page: 3})
	if v.TotalPages != 1 {
		t.Fatalf("expected totalPages 1 on empty set, got %d", v.TotalPages)
	}
	if v.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", v.Page)
	}
	if len(v.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(v.Items))
	}
}

func TestBuildView_PageClampedAfterShrink(t *testing.T) {
	members := fixtureMembers(25)
	v := roster.BuildView(members, roster.ViewParams{Page: 9})
	if v.Page != 3 {
		t.Fatalf("expected page clamped to 3, got %d", v.Page)
	}
	if len(v.Items) != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", len(v.Items))
	}
}

func TestBuildView_SortIsStableOnTies(t *testing.T) {
	// All members share one district, so a district sort is all ties and must
	// preserve insertion order.
	members := fixtureMembers(15)
	for i := range members {
		members[i].District = domain.Districts[0]
	}

	v := roster.BuildView(members, roster.ViewParams{SortKey: roster.SortDistrict, SortDir: roster.SortAsc})
	for i, m := range v.Items {
		if m.ID != int64(i+1) {
			t.Fatalf("tie order broken at position %d: got id %d", i, m.ID)
		}
	}
}

func TestBuildView_DescendingReversesWithoutTies(t *testing.T) {
	members := fixtureMembers(8)
	asc := roster.FilterSorted(members, roster.ViewParams{SortKey: roster.SortName, SortDir: roster.SortAsc})
	desc := roster.FilterSorted(members, roster.ViewParams{SortKey: roster.SortName, SortDir: roster.SortDesc})

	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("desc is not the reverse of asc at position %d", i)
		}
	}
}

func TestBuildView_SortByJoinedComparesInstants(t *testing.T) {
	members := fixtureMembers(6)
	v := roster.BuildView(members, roster.ViewParams{SortKey: roster.SortJoined, SortDir: roster.SortAsc})
	for i := 1; i < len(v.Items); i++ {
		if v.Items[i].CreatedAt.Before(v.Items[i-1].CreatedAt) {
			t.Fatalf("join dates out of order at position %d", i)
		}
	}
}

func TestResetPage(t *testing.T) {
	prev := roster.ViewParams{Search: "a", Page: 4}

	changed := prev
	changed.Search = "b"
	if got := roster.ResetPage(prev, changed); got.Page != 1 {
		t.Fatalf("expected page reset to 1 on search change, got %d", got.Page)
	}

	paged := prev
	paged.Page = 5
	if got := roster.ResetPage(prev, paged); got.Page != 5 {
		t.Fatalf("page-only change must not reset: got %d", got.Page)
	}
}
