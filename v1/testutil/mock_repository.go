package testutil

import (
	"context"
	"fmt"

	"github.com/mlg-/factory-girl-book-club/v1/models"
)

// MockRepository is an in-memory DirectoryRepository for testing.
// Setting Err makes every call fail with it.
type MockRepository struct {
	Err error

	clubs       []models.BookClub
	members     []models.Member
	pokemasters []models.Pokemaster
	pokemons    []models.Pokemon
}

// NewMockRepository creates a new MockRepository instance
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

func (m *MockRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Member{}, m.members...), nil
}

func (m *MockRepository) FindBookClub(ctx context.Context, id uint) (*models.BookClub, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.clubs {
		if c.ID == id {
			club := c
			return &club, nil
		}
	}
	return nil, fmt.Errorf("book club %d: %w", id, models.ErrNotFound)
}

func (m *MockRepository) MembersOf(ctx context.Context, clubID uint) ([]models.Member, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	members := []models.Member{}
	for _, member := range m.members {
		if member.BelongsTo(clubID) {
			members = append(members, member)
		}
	}
	return members, nil
}

func (m *MockRepository) ClubOf(ctx context.Context, member models.Member) (*models.BookClub, error) {
	if member.BookClubID == nil {
		return nil, models.ErrNotFound
	}
	return m.FindBookClub(ctx, *member.BookClubID)
}

func (m *MockRepository) ListPokemasters(ctx context.Context) ([]models.Pokemaster, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Pokemaster{}, m.pokemasters...), nil
}

func (m *MockRepository) PokemonsOf(ctx context.Context, pokemasterID uint) ([]models.Pokemon, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	pokemons := []models.Pokemon{}
	for _, p := range m.pokemons {
		if p.PokemasterID != nil && *p.PokemasterID == pokemasterID {
			pokemons = append(pokemons, p)
		}
	}
	return pokemons, nil
}

func (m *MockRepository) PokemasterOf(ctx context.Context, pokemon models.Pokemon) (*models.Pokemaster, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if pokemon.PokemasterID != nil {
		for _, pm := range m.pokemasters {
			if pm.ID == *pokemon.PokemasterID {
				master := pm
				return &master, nil
			}
		}
	}
	return nil, models.ErrNotFound
}

// CreateBookClub assigns the next ID when none is set
func (m *MockRepository) CreateBookClub(ctx context.Context, club *models.BookClub) (*models.BookClub, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if club.ID == 0 {
		club.ID = uint(len(m.clubs) + 1)
	}
	m.clubs = append(m.clubs, *club)
	return club, nil
}

// CreateMember enforces email uniqueness like the members table does
func (m *MockRepository) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, existing := range m.members {
		if existing.Email == member.Email {
			return nil, models.ErrDuplicateEmail
		}
	}
	if member.ID == 0 {
		member.ID = uint(len(m.members) + 1)
	}
	m.members = append(m.members, *member)
	return member, nil
}

func (m *MockRepository) CreatePokemaster(ctx context.Context, master *models.Pokemaster) (*models.Pokemaster, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if master.ID == 0 {
		master.ID = uint(len(m.pokemasters) + 1)
	}
	m.pokemasters = append(m.pokemasters, *master)
	return master, nil
}

func (m *MockRepository) CreatePokemon(ctx context.Context, pokemon *models.Pokemon) (*models.Pokemon, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if pokemon.ID == 0 {
		pokemon.ID = uint(len(m.pokemons) + 1)
	}
	m.pokemons = append(m.pokemons, *pokemon)
	return pokemon, nil
}

func (m *MockRepository) CountMembers(ctx context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.members)), nil
}

func (m *MockRepository) Ping(ctx context.Context) error {
	return m.Err
}
