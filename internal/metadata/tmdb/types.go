package tmdb

// Raw API response types (internal).

type rawPersonSearch struct {
	Results []rawPerson `json:"results"`
}

type rawPerson struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// rawCombinedCredits is /person/{id}/combined_credits. Crew is ignored.
type rawCombinedCredits struct {
	Cast []rawCredit `json:"cast"`
}

// rawCredit carries both movie and TV field names; which ones are set
// depends on media_type.
type rawCredit struct {
	ID           int    `json:"id"`
	MediaType    string `json:"media_type"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	Character    string `json:"character"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

type rawTitleSearch struct {
	Results []rawTitle `json:"results"`
}

type rawTitle struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	PosterPath   string `json:"poster_path"`
}

// date returns the release or first-air date, "" when neither is present.
func (t rawTitle) date() string {
	if t.ReleaseDate != "" {
		return t.ReleaseDate
	}
	return t.FirstAirDate
}

// rawCastList is /movie/{id}/credits or /tv/{id}/aggregate_credits.
type rawCastList struct {
	Cast []rawCastMember `json:"cast"`
}

// rawCastMember is a movie cast entry (Character) or an aggregate TV
// cast entry (Roles, one per character played across the run).
type rawCastMember struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Character string    `json:"character"`
	Roles     []rawRole `json:"roles"`
}

type rawRole struct {
	Character    string `json:"character"`
	EpisodeCount int    `json:"episode_count"`
}

// characters lists every character credited to the member.
func (m rawCastMember) characters() []string {
	if len(m.Roles) == 0 {
		if m.Character == "" {
			return nil
		}
		return []string{m.Character}
	}
	out := make([]string, 0, len(m.Roles))
	for _, r := range m.Roles {
		if r.Character != "" {
			out = append(out, r.Character)
		}
	}
	return out
}
