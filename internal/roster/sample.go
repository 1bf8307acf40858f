package roster

import (
	"time"

	"github.com/skusdev/profile/internal/domain"
)

// SampleMembers is the built-in fallback dataset, used whenever the member
// source fails or returns nothing. Join dates are anchored to now so the
// growth series, at-risk and needs-welcome buckets are populated no matter
// when the fallback fires.
func SampleMembers(now time.Time) []domain.Member {
	bd := func(offsetDays int) *time.Time {
		ref := now.AddDate(0, 0, offsetDays)
		t := time.Date(1990, ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		return &t
	}

	return []domain.Member{
		{
			ID:            1,
			FirstName:     "Somchai",
			LastName:      "Srisuk",
			Email:         "somchai.srisuk@example.com",
			Gender:        domain.GenderMale,
			District:      "Suphan Buri",
			Age:           34,
			CreatedAt:     now.AddDate(0, -1, -10),
			Birthday:      bd(5),
			Contributions: 12,
			ImageURL:      "https://example.com/avatars/somchai.png",
			Tags:          []string{"Committee"},
		},
		{
			ID:            2,
			FirstName:     "Kanya",
			LastName:      "Phromma",
			Email:         "kanya.phromma@example.com",
			Gender:        domain.GenderFemale,
			District:      "Kanchanaburi",
			Age:           28,
			CreatedAt:     now.AddDate(0, -1, 0),
			Birthday:      bd(20),
			Contributions: 7,
			ImageURL:      "https://example.com/avatars/kanya.png",
			Tags:          []string{"Volunteer"},
		},
		{
			// No contributions and enrolled well over thirty days ago, so the
			// at-risk bucket is never empty on a fresh install.
			ID:            3,
			FirstName:     "Anong",
			LastName:      "Chaiyasit",
			Email:         "anong.chaiyasit@example.com",
			Gender:        domain.GenderFemale,
			District:      "Uthai Thani",
			Age:           41,
			CreatedAt:     now.AddDate(0, -2, 0),
			Contributions: 0,
			ImageURL:      "https://example.com/avatars/anong.png",
			Tags:          []string{},
		},
		{
			ID:            4,
			FirstName:     "Prasert",
			LastName:      "Wongsawat",
			Email:         "prasert.wongsawat@example.com",
			Gender:        domain.GenderMale,
			District:      "Sing Buri",
			Age:           52,
			CreatedAt:     now.AddDate(0, 0, -3),
			Contributions: 3,
			Tags:          []string{"Alumni"},
		},
		{
			ID:            5,
			FirstName:     "Malee",
			LastName:      "Thongdee",
			Email:         "malee.thongdee@example.com",
			Gender:        domain.GenderFemale,
			District:      "Suphan Buri",
			Age:           23,
			CreatedAt:     now.AddDate(0, 0, -2),
			Contributions: 0,
			ImageURL:      "https://example.com/avatars/malee.png",
			Tags:          []string{},
		},
	}
}
