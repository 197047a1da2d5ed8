package database

import (
	"context"

	"github.com/mlg-/factory-girl-book-club/v1/models"
)

// DirectoryRepository defines the data access operations behind the directory pages.
// Lookups that match nothing return models.ErrNotFound.
type DirectoryRepository interface {
	// ListMembers returns every member
	ListMembers(ctx context.Context) ([]models.Member, error)

	// FindBookClub returns the club with the given id
	FindBookClub(ctx context.Context, id uint) (*models.BookClub, error)

	// MembersOf returns the members whose book_club_id equals clubID
	MembersOf(ctx context.Context, clubID uint) ([]models.Member, error)

	// ClubOf returns the club a member references. A missing or dangling
	// reference yields models.ErrNotFound.
	ClubOf(ctx context.Context, member models.Member) (*models.BookClub, error)

	// ListPokemasters returns every pokemaster
	ListPokemasters(ctx context.Context) ([]models.Pokemaster, error)

	// PokemonsOf returns the pokemon owned by a pokemaster
	PokemonsOf(ctx context.Context, pokemasterID uint) ([]models.Pokemon, error)

	// PokemasterOf returns the owner of a pokemon
	PokemasterOf(ctx context.Context, pokemon models.Pokemon) (*models.Pokemaster, error)

	// CreateBookClub inserts a club
	CreateBookClub(ctx context.Context, club *models.BookClub) (*models.BookClub, error)

	// CreateMember inserts a member; a taken email yields models.ErrDuplicateEmail
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)

	// CreatePokemaster inserts a pokemaster
	CreatePokemaster(ctx context.Context, master *models.Pokemaster) (*models.Pokemaster, error)

	// CreatePokemon inserts a pokemon
	CreatePokemon(ctx context.Context, pokemon *models.Pokemon) (*models.Pokemon, error)

	// CountMembers returns the number of member rows
	CountMembers(ctx context.Context) (int64, error)

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
