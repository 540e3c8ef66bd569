// Package domain contains the core entities shared by the cross-reference and recommendation pipeline.
package domain

// Sentinels used when the catalog omits a title or a date.
const (
	UnknownTitle = "Unknown Title"
	UnknownYear  = "Unknown Year"
)

// MediaKind distinguishes catalog title types.
type MediaKind string

const (
	MediaTV    MediaKind = "tv"
	MediaMovie MediaKind = "movie"
)

// Valid returns true if this is a recognized media kind.
func (k MediaKind) Valid() bool {
	return k == MediaTV || k == MediaMovie
}

// ActorIdentity identifies a person in the catalog.
// ProviderID is zero when the catalog id is unknown.
type ActorIdentity struct {
	Name       string `json:"name"`
	ProviderID int    `json:"provider_id,omitempty"`
}

// FilmographyEntry is one credited appearance of an actor.
type FilmographyEntry struct {
	Title     string    `json:"title"`
	Role      *string   `json:"role"` // nil when the catalog has no character
	Year      string    `json:"year"` // full date, or UnknownYear
	MediaType MediaKind `json:"media_type,omitempty"`
}

// KnownShowMatch is a filmography title the user has already rated.
// Role echoes what the caller asked about, not the credited character.
type KnownShowMatch struct {
	Title string  `json:"title"`
	Role  *string `json:"character"`
	Year  string  `json:"year"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
