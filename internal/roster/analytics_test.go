package roster_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/skusdev/profile/internal/domain"
	"github.com/skusdev/profile/internal/roster"
)

func TestGrowthRate(t *testing.T) {
	// Two enrollments last month, three this month: round(((3-2)/2)*100) = 50.
	if got := roster.GrowthRate(3, 2); got != 50 {
		t.Fatalf("expected growth rate 50, got %d", got)
	}
	if got := roster.GrowthRate(1, 3); got != -67 {
		t.Fatalf("expected growth rate -67, got %d", got)
	}
	// Policy, not math: a zero last month is 0, never a division by zero.
	if got := roster.GrowthRate(5, 0); got != 0 {
		t.Fatalf("expected growth rate 0 when last month is empty, got %d", got)
	}
}

func TestComputeSummary_GrowthScenario(t *testing.T) {
	members := []domain.Member{
		{ID: 1, CreatedAt: testNow.AddDate(0, -1, 0)},
		{ID: 2, CreatedAt: testNow.AddDate(0, -1, 3)},
		{ID: 3, CreatedAt: testNow.AddDate(0, 0, -1)},
		{ID: 4, CreatedAt: testNow.AddDate(0, 0, -2)},
		{ID: 5, CreatedAt: testNow},
	}

	s := roster.ComputeSummary(members, testNow)
	if s.NewLastMonth != 2 {
		t.Fatalf("expected 2 last month, got %d", s.NewLastMonth)
	}
	if s.NewThisMonth != 3 {
		t.Fatalf("expected 3 this month, got %d", s.NewThisMonth)
	}
	if s.GrowthRate != 50 {
		t.Fatalf("expected growth rate 50, got %d", s.GrowthRate)
	}
}

func TestComputeSummary_EmptySetIsAllZeros(t *testing.T) {
	s := roster.ComputeSummary(nil, testNow)

	if s.EngagementScore != 0 {
		t.Fatalf("engagement score on empty set: %d", s.EngagementScore)
	}
	if s.RetentionRate != 0 {
		t.Fatalf("retention rate on empty set: %d", s.RetentionRate)
	}
	if s.GrowthRate != 0 {
		t.Fatalf("growth rate on empty set: %d", s.GrowthRate)
	}
	for _, p := range s.Performance {
		if p.EngagementRate != 0 {
			t.Fatalf("district %s engagement rate on empty set: %d", p.District, p.EngagementRate)
		}
	}
	// Fixed district set always appears, zero counts included.
	if len(s.DistrictCounts) != len(domain.Districts) {
		t.Fatalf("expected %d district counts, got %d", len(domain.Districts), len(s.DistrictCounts))
	}
}

func TestAtRisk(t *testing.T) {
	old := domain.Member{Contributions: 0, CreatedAt: testNow.AddDate(0, 0, -45)}
	if !roster.AtRisk(&old, testNow) {
		t.Fatal("45-day-old member with no contributions should be at risk")
	}

	recent := domain.Member{Contributions: 0, CreatedAt: testNow.AddDate(0, 0, -10)}
	if roster.AtRisk(&recent, testNow) {
		t.Fatal("10-day-old member should not be at risk yet")
	}

	active := domain.Member{Contributions: 4, CreatedAt: testNow.AddDate(0, 0, -45)}
	if roster.AtRisk(&active, testNow) {
		t.Fatal("contributing member should never be at risk")
	}
}

func TestNeedsWelcome(t *testing.T) {
	fresh := domain.Member{CreatedAt: testNow.AddDate(0, 0, -3)}
	if !roster.NeedsWelcome(&fresh, testNow) {
		t.Fatal("member who joined 3 days ago needs a welcome")
	}

	// Joined within 7 days but in the previous calendar month.
	endOfLastMonth := time.Date(2025, time.July, 2, 12, 0, 0, 0, time.UTC)
	lastMonth := domain.Member{CreatedAt: time.Date(2025, time.June, 29, 12, 0, 0, 0, time.UTC)}
	if roster.NeedsWelcome(&lastMonth, endOfLastMonth) {
		t.Fatal("previous-month joiner is not a this-month welcome")
	}

	older := domain.Member{CreatedAt: testNow.AddDate(0, 0, -10)}
	if roster.NeedsWelcome(&older, testNow) {
		t.Fatal("10-day-old member no longer needs a welcome")
	}
}

func TestIncompleteProfile(t *testing.T) {
	complete := domain.Member{Email: "a@example.com", ImageURL: "https://example.com/a.png"}
	if roster.IncompleteProfile(&complete) {
		t.Fatal("complete profile flagged incomplete")
	}
	noImage := domain.Member{Email: "a@example.com"}
	if !roster.IncompleteProfile(&noImage) {
		t.Fatal("missing image not flagged")
	}
	noEmail := domain.Member{ImageURL: "https://example.com/a.png"}
	if !roster.IncompleteProfile(&noEmail) {
		t.Fatal("missing email not flagged")
	}
}

func TestBirthdayWindows(t *testing.T) {
	bd := func(month time.Month, day int) *time.Time {
		d := time.Date(1990, month, day, 0, 0, 0, 0, time.UTC)
		return &d
	}

	// testNow is June 15.
	inFive := domain.Member{Birthday: bd(time.June, 20)}
	if !roster.BirthdayUrgent(&inFive, testNow) || !roster.BirthdayUpcoming(&inFive, testNow) {
		t.Fatal("birthday in 5 days is urgent and upcoming")
	}

	inTwenty := domain.Member{Birthday: bd(time.July, 5)}
	if roster.BirthdayUrgent(&inTwenty, testNow) {
		t.Fatal("birthday in 20 days is not urgent")
	}
	if !roster.BirthdayUpcoming(&inTwenty, testNow) {
		t.Fatal("birthday in 20 days is upcoming")
	}

	passed := domain.Member{Birthday: bd(time.June, 1)}
	if roster.BirthdayUpcoming(&passed, testNow) {
		t.Fatal("birthday already passed this year is not upcoming")
	}

	today := domain.Member{Birthday: bd(time.June, 15)}
	if !roster.BirthdayUrgent(&today, testNow) {
		t.Fatal("birthday today is urgent")
	}

	none := domain.Member{}
	if roster.BirthdayUpcoming(&none, testNow) || roster.BirthdayUrgent(&none, testNow) {
		t.Fatal("member without a birthday must be excluded, not zero days away")
	}
}

func TestRetentionEqualsEngagement_RandomSets(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(40)
		members := make([]domain.Member, n)
		for i := range members {
			members[i] = domain.Member{
				ID:            int64(i + 1),
				District:      domain.Districts[rng.Intn(len(domain.Districts))],
				Contributions: rng.Intn(3),
				CreatedAt:     testNow.AddDate(0, -rng.Intn(6), -rng.Intn(28)),
			}
		}
		if e, r := roster.EngagementScore(members), roster.RetentionRate(members); e != r {
			t.Fatalf("trial %d: engagement %d != retention %d", trial, e, r)
		}
		s := roster.ComputeSummary(members, testNow)
		if s.EngagementScore != s.RetentionRate {
			t.Fatalf("trial %d: summary engagement %d != retention %d", trial, s.EngagementScore, s.RetentionRate)
		}
	}
}

func TestRankDistricts_TiesKeepDeclarationOrder(t *testing.T) {
	// Two districts with identical engagement rates; the configured order
	// must decide the ranking between them.
	members := []domain.Member{
		{ID: 1, District: domain.Districts[2], Contributions: 1, CreatedAt: testNow},
		{ID: 2, District: domain.Districts[2], Contributions: 0, CreatedAt: testNow},
		{ID: 3, District: domain.Districts[0], Contributions: 1, CreatedAt: testNow},
		{ID: 4, District: domain.Districts[0], Contributions: 0, CreatedAt: testNow},
	}

	ranked := roster.RankDistricts(members, testNow)
	if ranked[0].District != domain.Districts[0] || ranked[1].District != domain.Districts[2] {
		t.Fatalf("tie not broken by declaration order: %s before %s", ranked[0].District, ranked[1].District)
	}
	// Districts with no members rank last, rate 0.
	for _, p := range ranked[2:] {
		if p.Total != 0 || p.EngagementRate != 0 {
			t.Fatalf("empty district %s has total %d rate %d", p.District, p.Total, p.EngagementRate)
		}
	}
}

func TestRankDistricts_NewThisMonth(t *testing.T) {
	members := []domain.Member{
		{ID: 1, District: domain.Districts[0], CreatedAt: testNow.AddDate(0, 0, -1)},
		{ID: 2, District: domain.Districts[0], CreatedAt: testNow.AddDate(0, -2, 0)},
	}
	ranked := roster.RankDistricts(members, testNow)
	for _, p := range ranked {
		if p.District != domain.Districts[0] {
			continue
		}
		if p.NewThisMonth != 1 {
			t.Fatalf("expected 1 new this month, got %d", p.NewThisMonth)
		}
		if p.Total != 2 {
			t.Fatalf("expected total 2, got %d", p.Total)
		}
	}
}

func TestMonthlyCohorts_Chronological(t *testing.T) {
	members := []domain.Member{
		{ID: 1, CreatedAt: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 4, CreatedAt: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)},
	}

	cohorts := roster.MonthlyCohorts(members)
	want := []roster.MonthCount{
		{Month: "Dec 2024", Count: 1},
		{Month: "Apr 2025", Count: 1},
		{Month: "Jun 2025", Count: 2},
	}
	if len(cohorts) != len(want) {
		t.Fatalf("expected %d cohorts, got %d", len(want), len(cohorts))
	}
	for i := range want {
		if cohorts[i] != want[i] {
			t.Fatalf("cohort %d: expected %+v, got %+v", i, want[i], cohorts[i])
		}
	}
}

func TestTopContributorsAndRecentActivity(t *testing.T) {
	members := fixtureMembers(12)
	members[3].Contributions = 99

	top := roster.TopContributors(members)
	if len(top) != 5 {
		t.Fatalf("expected 5 top contributors, got %d", len(top))
	}
	if top[0].ID != members[3].ID {
		t.Fatalf("expected member %d on top, got %d", members[3].ID, top[0].ID)
	}
	for _, m := range top {
		if m.Contributions == 0 {
			t.Fatalf("member %d with no contributions listed as contributor", m.ID)
		}
	}

	recent := roster.RecentActivity(members)
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent members, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Fatalf("recent activity out of order at %d", i)
		}
	}
}

func TestComputeSummary_SampleData(t *testing.T) {
	members := roster.SampleMembers(testNow)
	s := roster.ComputeSummary(members, testNow)

	if s.TotalMembers != 5 {
		t.Fatalf("expected 5 members, got %d", s.TotalMembers)
	}
	if s.MaleCount != 2 || s.FemaleCount != 3 {
		t.Fatalf("expected 2 male / 3 female, got %d / %d", s.MaleCount, s.FemaleCount)
	}
	if s.ActiveCount != 3 || s.InactiveCount != 2 {
		t.Fatalf("expected 3 active / 2 inactive, got %d / %d", s.ActiveCount, s.InactiveCount)
	}
	if s.EngagementScore != 60 {
		t.Fatalf("expected engagement 60, got %d", s.EngagementScore)
	}
	if s.AtRiskCount != 1 {
		t.Fatalf("expected 1 at-risk member, got %d", s.AtRiskCount)
	}
	if s.NeedsWelcomeCount != 2 {
		t.Fatalf("expected 2 needs-welcome members, got %d", s.NeedsWelcomeCount)
	}
	// Member 4 has no avatar image URL.
	if s.IncompleteCount != 1 {
		t.Fatalf("expected 1 incomplete profile, got %d", s.IncompleteCount)
	}
	if s.UrgentBirthdays != 1 || s.UpcomingBirthdays != 2 {
		t.Fatalf("expected 1 urgent / 2 upcoming birthdays, got %d / %d", s.UrgentBirthdays, s.UpcomingBirthdays)
	}
}
