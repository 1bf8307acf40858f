package domain

import (
	"context"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Districts is the fixed set of locations members belong to. The order is
// significant: district rankings break ties by this declaration order.
var Districts = []string{
	"Suphan Buri",
	"Kanchanaburi",
	"Uthai Thani",
	"Sing Buri",
}

// Tags is the fixed vocabulary of tags that can be assigned to members.
var Tags = []string{"Committee", "Volunteer", "Alumni"}

type Member struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Gender        Gender     `json:"gender"`
	District      string     `json:"district"`
	Age           int        `json:"age"`
	CreatedAt     time.Time  `json:"created_at"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	Contributions int        `json:"contributions"`
	ImageURL      string     `json:"image_url,omitempty"`
	Tags          []string   `json:"tags"`
}

// FullName returns the display name used for search and sorting.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Active reports whether the member has any recorded contributions.
func (m *Member) Active() bool {
	return m.Contributions > 0
}

// HasTag reports whether the member carries the given tag.
func (m *Member) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MemberInput is the payload for creating a member. The ID is assigned by the
// store, never by the caller.
type MemberInput struct {
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Gender        Gender     `json:"gender"`
	District      string     `json:"district"`
	Age           int        `json:"age"`
	CreatedAt     time.Time  `json:"created_at"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	Contributions int        `json:"contributions"`
	ImageURL      string     `json:"image_url,omitempty"`
	Tags          []string   `json:"tags"`
}

// MemberPatch is a partial update. Nil fields are left untouched by the merge.
type MemberPatch struct {
	FirstName     *string    `json:"first_name,omitempty"`
	LastName      *string    `json:"last_name,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Gender        *Gender    `json:"gender,omitempty"`
	District      *string    `json:"district,omitempty"`
	Age           *int       `json:"age,omitempty"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	Contributions *int       `json:"contributions,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	Tags          *[]string  `json:"tags,omitempty"`
}

// ValidGender reports whether g is one of the known gender values.
func ValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale
}

// ValidDistrict reports whether d is in the configured district set.
func ValidDistrict(d string) bool {
	for _, known := range Districts {
		if d == known {
			return true
		}
	}
	return false
}

// ValidTag reports whether t is in the tag vocabulary.
func ValidTag(t string) bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// MemberRepository persists members durably. Implementations store records
// under the ids assigned by the in-memory store, they never assign their own.
type MemberRepository interface {
	Insert(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) error
	List(ctx context.Context) ([]Member, error)
	ReplaceAll(ctx context.Context, members []Member) error
}

// MemberSource supplies the initial record set at startup. A failed or empty
// fetch makes the caller fall back to the built-in sample data.
type MemberSource interface {
	Fetch(ctx context.Context) ([]Member, error)
}

// Database defines lifecycle operations for the underlying database. Each
// implementation owns its own migration files and strategy, ensuring the
// entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
