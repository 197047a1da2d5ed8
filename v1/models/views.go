package models

// MembersPage is the view-model for the member directory
type MembersPage struct {
	Title   string
	Members []Member
}

// BookClubPage is the view-model for a single book club.
// Leader is nil when no member is flagged; Leaders lists all flagged members.
type BookClubPage struct {
	BookClub    BookClub
	Members     []Member
	Leader      *Member
	Leaders     []Member
	LeaderLabel string
}

// IsLeader reports whether the member is one of the page's leaders
func (p BookClubPage) IsLeader(m Member) bool {
	for _, l := range p.Leaders {
		if l.ID == m.ID {
			return true
		}
	}
	return false
}

// PokemasterEntry pairs a pokemaster with the pokemon they own
type PokemasterEntry struct {
	Pokemaster Pokemaster
	Pokemons   []Pokemon
}

// PokemastersPage is the view-model for the pokemaster directory
type PokemastersPage struct {
	Title       string
	Pokemasters []PokemasterEntry
}

// ErrorPage is the view-model for error responses
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}
