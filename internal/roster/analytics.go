package roster

import (
	"math"
	"sort"
	"time"

	"github.com/skusdev/profile/internal/domain"
)

const (
	atRiskAfter   = 30 * 24 * time.Hour
	welcomeWithin = 7 * 24 * time.Hour

	upcomingBirthdayDays = 30
	urgentBirthdayDays   = 7

	topListSize = 5
)

// DistrictCount is the number of members in one district.
type DistrictCount struct {
	District string `json:"district"`
	Count    int    `json:"count"`
}

// MonthCount is one monthly enrollment cohort.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DistrictPerformance summarizes one district for the ranking table.
type DistrictPerformance struct {
	District       string `json:"district"`
	Total          int    `json:"total"`
	Active         int    `json:"active"`
	NewThisMonth   int    `json:"new_this_month"`
	EngagementRate int    `json:"engagement_rate"`
}

// Summary is the full battery of dashboard metrics, recomputed from the
// complete collection and a reference instant whenever the store changes.
type Summary struct {
	TotalMembers  int `json:"total_members"`
	MaleCount     int `json:"male_count"`
	FemaleCount   int `json:"female_count"`
	ActiveCount   int `json:"active_count"`
	InactiveCount int `json:"inactive_count"`

	DistrictCounts []DistrictCount `json:"district_counts"`
	Growth         []MonthCount    `json:"growth"`
	NewThisMonth   int             `json:"new_this_month"`
	NewLastMonth   int             `json:"new_last_month"`
	GrowthRate     int             `json:"growth_rate"`

	EngagementScore int `json:"engagement_score"`
	RetentionRate   int `json:"retention_rate"`

	AtRiskCount       int `json:"at_risk_count"`
	IncompleteCount   int `json:"incomplete_count"`
	NeedsWelcomeCount int `json:"needs_welcome_count"`

	UpcomingBirthdays int `json:"upcoming_birthdays"`
	UrgentBirthdays   int `json:"urgent_birthdays"`

	Performance []DistrictPerformance `json:"performance"`

	TopContributors []domain.Member `json:"top_contributors"`
	RecentActivity  []domain.Member `json:"recent_activity"`
}

// ComputeSummary recomputes every dashboard metric from the full, unfiltered
// collection. Pure: the same members and now always produce the same summary.
func ComputeSummary(members []domain.Member, now time.Time) Summary {
	s := Summary{
		TotalMembers:    len(members),
		DistrictCounts:  DistrictCounts(members),
		Growth:          MonthlyCohorts(members),
		NewThisMonth:    countCreatedIn(members, now),
		NewLastMonth:    countCreatedIn(members, now.AddDate(0, -1, 0)),
		Performance:     RankDistricts(members, now),
		TopContributors: TopContributors(members),
		RecentActivity:  RecentActivity(members),
	}

	for _, m := range members {
		if m.Gender == domain.GenderMale {
			s.MaleCount++
		} else if m.Gender == domain.GenderFemale {
			s.FemaleCount++
		}
		if m.Active() {
			s.ActiveCount++
		}
		if AtRisk(&m, now) {
			s.AtRiskCount++
		}
		if IncompleteProfile(&m) {
			s.IncompleteCount++
		}
		if NeedsWelcome(&m, now) {
			s.NeedsWelcomeCount++
		}
		if days, ok := daysToBirthday(&m, now); ok {
			if days >= 0 && days <= upcomingBirthdayDays {
				s.UpcomingBirthdays++
			}
			if days >= 0 && days <= urgentBirthdayDays {
				s.UrgentBirthdays++
			}
		}
	}

	s.InactiveCount = s.TotalMembers - s.ActiveCount
	s.GrowthRate = GrowthRate(s.NewThisMonth, s.NewLastMonth)
	s.EngagementScore = roundPercent(s.ActiveCount, s.TotalMembers)
	// The retention rate is the engagement score under another name; both are
	// the share of members with any contributions. Kept as separate outputs.
	s.RetentionRate = s.EngagementScore
	return s
}

// DistrictCounts counts members per configured district, zero included.
func DistrictCounts(members []domain.Member) []DistrictCount {
	counts := make([]DistrictCount, len(domain.Districts))
	for i, d := range domain.Districts {
		counts[i].District = d
	}
	for _, m := range members {
		for i := range counts {
			if counts[i].District == m.District {
				counts[i].Count++
				break
			}
		}
	}
	return counts
}

// MonthlyCohorts groups members by the (year, month) of their join date and
// returns the series in chronological order, labeled like "Jan 2006".
func MonthlyCohorts(members []domain.Member) []MonthCount {
	counts := make(map[time.Time]int)
	for _, m := range members {
		counts[monthOf(m.CreatedAt)]++
	}

	months := make([]time.Time, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]MonthCount, 0, len(months))
	for _, month := range months {
		out = append(out, MonthCount{Month: month.Format("Jan 2006"), Count: counts[month]})
	}
	return out
}

// GrowthRate is the month-over-month enrollment change in whole percent.
// Defined as 0 when last month had no enrollments; never a division by zero.
func GrowthRate(thisMonth, lastMonth int) int {
	if lastMonth == 0 {
		return 0
	}
	return int(math.Round(float64(thisMonth-lastMonth) / float64(lastMonth) * 100))
}

// EngagementScore is the share of members with any contributions, in whole
// percent. Defined as 0 for an empty collection.
func EngagementScore(members []domain.Member) int {
	active := 0
	for _, m := range members {
		if m.Active() {
			active++
		}
	}
	return roundPercent(active, len(members))
}

// RetentionRate equals EngagementScore for any record set; the dashboard
// exposes the same computation under both names.
func RetentionRate(members []domain.Member) int {
	return EngagementScore(members)
}

// AtRisk reports members with no contributions whose enrollment is more than
// thirty days old.
func AtRisk(m *domain.Member, now time.Time) bool {
	return m.Contributions == 0 && now.Sub(m.CreatedAt) > atRiskAfter
}

// IncompleteProfile reports members missing an avatar image or an email.
func IncompleteProfile(m *domain.Member) bool {
	return m.ImageURL == "" || m.Email == ""
}

// NeedsWelcome reports members who joined this calendar month, within the
// last seven days.
func NeedsWelcome(m *domain.Member, now time.Time) bool {
	if monthOf(m.CreatedAt) != monthOf(now) {
		return false
	}
	since := now.Sub(m.CreatedAt)
	return since >= 0 && since <= welcomeWithin
}

// BirthdayUpcoming reports members whose birthday recurs within the next
// thirty days. Members without a recorded birthday are excluded, not treated
// as zero days away.
func BirthdayUpcoming(m *domain.Member, now time.Time) bool {
	days, ok := daysToBirthday(m, now)
	return ok && days >= 0 && days <= upcomingBirthdayDays
}

// BirthdayUrgent reports members whose birthday recurs within the next seven
// days.
func BirthdayUrgent(m *domain.Member, now time.Time) bool {
	days, ok := daysToBirthday(m, now)
	return ok && days >= 0 && days <= urgentBirthdayDays
}

// RankDistricts summarizes every district and ranks them by engagement rate,
// descending. Ties keep the configured district order (the sort is stable).
func RankDistricts(members []domain.Member, now time.Time) []DistrictPerformance {
	perf := make([]DistrictPerformance, len(domain.Districts))
	for i, d := range domain.Districts {
		perf[i].District = d
	}
	for _, m := range members {
		for i := range perf {
			if perf[i].District != m.District {
				continue
			}
			perf[i].Total++
			if m.Active() {
				perf[i].Active++
			}
			if monthOf(m.CreatedAt) == monthOf(now) {
				perf[i].NewThisMonth++
			}
			break
		}
	}
	for i := range perf {
		perf[i].EngagementRate = roundPercent(perf[i].Active, perf[i].Total)
	}
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].EngagementRate > perf[j].EngagementRate
	})
	return perf
}

// TopContributors returns the five members with the most contributions,
// excluding those with none.
func TopContributors(members []domain.Member) []domain.Member {
	contributors := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.Active() {
			contributors = append(contributors, m)
		}
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Contributions > contributors[j].Contributions
	})
	if len(contributors) > topListSize {
		contributors = contributors[:topListSize]
	}
	return contributors
}

// RecentActivity returns the five most recently enrolled members.
func RecentActivity(members []domain.Member) []domain.Member {
	recent := make([]domain.Member, len(members))
	copy(recent, members)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > topListSize {
		recent = recent[:topListSize]
	}
	return recent
}

// daysToBirthday substitutes now's year into the member's birthday and
// returns the whole-day difference to now. ok is false when no birthday is
// recorded.
func daysToBirthday(m *domain.Member, now time.Time) (days int, ok bool) {
	if m.Birthday == nil {
		return 0, false
	}
	b := *m.Birthday
	next := time.Date(now.Year(), b.Month(), b.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(next.Sub(today) / (24 * time.Hour)), true
}

func countCreatedIn(members []domain.Member, ref time.Time) int {
	month := monthOf(ref)
	n := 0
	for _, m := range members {
		if monthOf(m.CreatedAt) == month {
			n++
		}
	}
	return n
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// roundPercent is round(part/total*100), defined as 0 when total is 0.
func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
