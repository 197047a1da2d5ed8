package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlg-/factory-girl-book-club/v1/database"
	"github.com/mlg-/factory-girl-book-club/v1/models"
)

// Summary counts the rows a seed run created
type Summary struct {
	BookClubs   int
	Members     int
	Pokemasters int
	Pokemons    int
	Skipped     bool
}

type memberFixture struct {
	first, last, email, favoriteBook string
	leader                           bool
}

var deadPoets = []memberFixture{
	{"John", "Keating", "keating@welton.edu", "Leaves of Grass", true},
	{"Neil", "Perry", "neil.perry@welton.edu", "A Midsummer Night's Dream", false},
	{"Todd", "Anderson", "todd.anderson@welton.edu", "Walden", true},
	{"Knox", "Overstreet", "knox.overstreet@welton.edu", "", false},
	{"Charlie", "Dalton", "charlie.dalton@welton.edu", "", false},
	{"Richard", "Cameron", "richard.cameron@welton.edu", "", false},
	{"Steven", "Meeks", "steven.meeks@welton.edu", "", false},
	{"Gerard", "Pitts", "gerard.pitts@welton.edu", "", false},
}

var transcendentalists = []memberFixture{
	{"Henry", "Thoreau", "henry@walden.org", "Walden", true},
	{"Margaret", "Fuller", "margaret@dial.org", "", false},
}

// unaffiliated members belong to no club
var unaffiliated = []memberFixture{
	{"Emily", "Dickinson", "emily@amherst.edu", "Jane Eyre", false},
	{"Walt", "Whitman", "walt@leaves.org", "", false},
}

// Run fills an empty database with sample clubs, members, pokemasters and
// pokemon. It does nothing when members already exist.
func Run(ctx context.Context, repo database.DirectoryRepository) (*Summary, error) {
	count, err := repo.CountMembers(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		slog.Info("Database already has members, skipping seed", "members", count)
		return &Summary{Skipped: true}, nil
	}

	summary := &Summary{}

	clubs := []struct {
		name, location string
		members        []memberFixture
	}{
		{"Dead Poets' Society", "Welton Academy", deadPoets},
		{"Transcendentalists", "Concord", transcendentalists},
	}
	for _, c := range clubs {
		location := c.location
		club, err := repo.CreateBookClub(ctx, &models.BookClub{Name: c.name, Location: &location})
		if err != nil {
			return nil, err
		}
		summary.BookClubs++

		if err := createMembers(ctx, repo, c.members, &club.ID); err != nil {
			return nil, err
		}
		summary.Members += len(c.members)
	}

	if err := createMembers(ctx, repo, unaffiliated, nil); err != nil {
		return nil, err
	}
	summary.Members += len(unaffiliated)

	if err := seedPokemasters(ctx, repo, summary); err != nil {
		return nil, err
	}

	slog.Info("Seeded database",
		"book_clubs", summary.BookClubs,
		"members", summary.Members,
		"pokemasters", summary.Pokemasters,
		"pokemons", summary.Pokemons)
	return summary, nil
}

func createMembers(ctx context.Context, repo database.DirectoryRepository, fixtures []memberFixture, clubID *uint) error {
	for _, f := range fixtures {
		member := &models.Member{
			FirstName:  f.first,
			LastName:   f.last,
			Email:      f.email,
			BookClubID: clubID,
			Leader:     f.leader,
		}
		if f.favoriteBook != "" {
			book := f.favoriteBook
			member.FavoriteBook = &book
		}
		if _, err := repo.CreateMember(ctx, member); err != nil {
			return err
		}
	}
	return nil
}

func seedPokemasters(ctx context.Context, repo database.DirectoryRepository, summary *Summary) error {
	masters := []struct {
		name string
		age  int
	}{
		{"Ash", 14},
		{"Brock", 15},
	}

	created := make([]*models.Pokemaster, 0, len(masters))
	for i, m := range masters {
		age := m.age
		email := fmt.Sprintf("pokemaster%d@gmail.com", i+1)
		master, err := repo.CreatePokemaster(ctx, &models.Pokemaster{Name: m.name, Age: &age, Email: &email})
		if err != nil {
			return err
		}
		created = append(created, master)
		summary.Pokemasters++
	}

	ability, poketype := "Overgrow", "Grass"
	strength, age := 25, 2
	bulbasaur := models.Pokemon{
		Name:         "Bulbasaur",
		Ability:      &ability,
		Poketype:     &poketype,
		Strength:     &strength,
		Age:          &age,
		PokemasterID: &created[0].ID,
	}
	if _, err := repo.CreatePokemon(ctx, &bulbasaur); err != nil {
		return err
	}
	summary.Pokemons++

	ivysaur, _ := bulbasaur.Evolve()
	ivysaur.ID = 0
	ivysaur.PokemasterID = &created[1].ID
	if _, err := repo.CreatePokemon(ctx, &ivysaur); err != nil {
		return err
	}
	summary.Pokemons++

	return nil
}
