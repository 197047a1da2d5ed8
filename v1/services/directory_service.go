package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlg-/factory-girl-book-club/config"
	"github.com/mlg-/factory-girl-book-club/v1/database"
	"github.com/mlg-/factory-girl-book-club/v1/models"
)

// DirectoryService selects the query for each page and assembles its view-model
type DirectoryService struct {
	repo   database.DirectoryRepository
	labels config.Labels
}

// NewDirectoryService creates a new directory service instance
func NewDirectoryService(repo database.DirectoryRepository, labels config.Labels) *DirectoryService {
	return &DirectoryService{repo: repo, labels: labels}
}

// Labels returns the display labels used by the service
func (s *DirectoryService) Labels() config.Labels {
	return s.labels
}

// MembersDirectory lists every member
func (s *DirectoryService) MembersDirectory(ctx context.Context) (*models.MembersPage, error) {
	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load members directory: %w", err)
	}

	return &models.MembersPage{
		Title:   s.labels.MembersTitle,
		Members: members,
	}, nil
}

// BookClubDetail loads a club, its members and its leader for the legacy page.
// Leader stays nil when no member is flagged.
func (s *DirectoryService) BookClubDetail(ctx context.Context, id uint) (*models.BookClubPage, error) {
	club, members, err := s.clubWithMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	page := &models.BookClubPage{
		BookClub:    *club,
		Members:     members,
		LeaderLabel: s.labels.Leader,
	}
	if leader, ok := models.LeaderOf(members); ok {
		page.Leader = leader
	}
	return page, nil
}

// BookClub loads a club and its members and flags every leader
func (s *DirectoryService) BookClub(ctx context.Context, id uint) (*models.BookClubPage, error) {
	club, members, err := s.clubWithMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	leaders := models.LeadersOf(members)
	if len(leaders) > 1 {
		slog.DebugContext(ctx, "Book club has several leaders", "book_club_id", id, "leaders", len(leaders))
	}

	return &models.BookClubPage{
		BookClub:    *club,
		Members:     members,
		Leaders:     leaders,
		LeaderLabel: s.labels.Leader,
	}, nil
}

func (s *DirectoryService) clubWithMembers(ctx context.Context, id uint) (*models.BookClub, []models.Member, error) {
	club, err := s.repo.FindBookClub(ctx, id)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to load book club %d: %w", id, err)
	}

	members, err := s.repo.MembersOf(ctx, club.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load members of book club %d: %w", id, err)
	}
	return club, members, nil
}

// PokemastersDirectory lists every pokemaster with the pokemon they own
func (s *DirectoryService) PokemastersDirectory(ctx context.Context) (*models.PokemastersPage, error) {
	masters, err := s.repo.ListPokemasters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pokemasters directory: %w", err)
	}

	entries := make([]models.PokemasterEntry, 0, len(masters))
	for _, master := range masters {
		pokemons, err := s.repo.PokemonsOf(ctx, master.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load pokemons of %s: %w", master.Name, err)
		}
		entries = append(entries, models.PokemasterEntry{Pokemaster: master, Pokemons: pokemons})
	}

	return &models.PokemastersPage{
		Title:       s.labels.PokemastersTitle,
		Pokemasters: entries,
	}, nil
}

// Ping checks that storage is reachable
func (s *DirectoryService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
