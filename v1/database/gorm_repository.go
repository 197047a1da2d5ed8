package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mlg-/factory-girl-book-club/monitoring"
	"github.com/mlg-/factory-girl-book-club/v1/models"
	"gorm.io/gorm"
)

// GormRepository implements DirectoryRepository using GORM (works with SQLite or PostgreSQL).
// The schema is owned by the migrations package.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func observe(ctx context.Context, operation string, start time.Time, err error) {
	monitoring.RecordDBLatency(ctx, operation, time.Since(start), err)
}

// ListMembers retrieves all members
func (r *GormRepository) ListMembers(ctx context.Context) (members []models.Member, err error) {
	start := time.Now()
	defer func() { observe(ctx, "list_members", start, err) }()

	if err = r.db.WithContext(ctx).Order("id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// FindBookClub retrieves a book club by id
func (r *GormRepository) FindBookClub(ctx context.Context, id uint) (club *models.BookClub, err error) {
	start := time.Now()
	defer func() { observe(ctx, "find_book_club", start, err) }()

	var found models.BookClub
	if err = r.db.WithContext(ctx).First(&found, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book club %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find book club %d: %w", id, err)
	}
	return &found, nil
}

// MembersOf retrieves the members of a book club
func (r *GormRepository) MembersOf(ctx context.Context, clubID uint) (members []models.Member, err error) {
	start := time.Now()
	defer func() { observe(ctx, "members_of", start, err) }()

	if err = r.db.WithContext(ctx).
		Where("book_club_id = ?", clubID).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members of book club %d: %w", clubID, err)
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// ClubOf retrieves the book club a member references
func (r *GormRepository) ClubOf(ctx context.Context, member models.Member) (*models.BookClub, error) {
	if member.BookClubID == nil {
		return nil, fmt.Errorf("member %d has no book club: %w", member.ID, models.ErrNotFound)
	}
	return r.FindBookClub(ctx, *member.BookClubID)
}

// ListPokemasters retrieves all pokemasters
func (r *GormRepository) ListPokemasters(ctx context.Context) (masters []models.Pokemaster, err error) {
	start := time.Now()
	defer func() { observe(ctx, "list_pokemasters", start, err) }()

	if err = r.db.WithContext(ctx).Order("id ASC").Find(&masters).Error; err != nil {
		return nil, fmt.Errorf("failed to list pokemasters: %w", err)
	}
	if masters == nil {
		masters = []models.Pokemaster{}
	}
	return masters, nil
}

// PokemonsOf retrieves the pokemon owned by a pokemaster
func (r *GormRepository) PokemonsOf(ctx context.Context, pokemasterID uint) (pokemons []models.Pokemon, err error) {
	start := time.Now()
	defer func() { observe(ctx, "pokemons_of", start, err) }()

	if err = r.db.WithContext(ctx).
		Where("pokemaster_id = ?", pokemasterID).
		Order("id ASC").
		Find(&pokemons).Error; err != nil {
		return nil, fmt.Errorf("failed to list pokemons of pokemaster %d: %w", pokemasterID, err)
	}
	if pokemons == nil {
		pokemons = []models.Pokemon{}
	}
	return pokemons, nil
}

// PokemasterOf retrieves the owner of a pokemon
func (r *GormRepository) PokemasterOf(ctx context.Context, pokemon models.Pokemon) (master *models.Pokemaster, err error) {
	if pokemon.PokemasterID == nil {
		return nil, fmt.Errorf("pokemon %d has no pokemaster: %w", pokemon.ID, models.ErrNotFound)
	}
	start := time.Now()
	defer func() { observe(ctx, "find_pokemaster", start, err) }()

	var found models.Pokemaster
	if err = r.db.WithContext(ctx).First(&found, *pokemon.PokemasterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pokemaster %d: %w", *pokemon.PokemasterID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find pokemaster %d: %w", *pokemon.PokemasterID, err)
	}
	return &found, nil
}

// CreateBookClub creates a new book club
func (r *GormRepository) CreateBookClub(ctx context.Context, club *models.BookClub) (*models.BookClub, error) {
	if err := r.db.WithContext(ctx).Create(club).Error; err != nil {
		return nil, fmt.Errorf("failed to create book club: %w", err)
	}
	return club, nil
}

// CreateMember creates a new member. The unique index on email rejects duplicates.
func (r *GormRepository) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("failed to create member %s: %w", member.Email, models.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// CreatePokemaster creates a new pokemaster
func (r *GormRepository) CreatePokemaster(ctx context.Context, master *models.Pokemaster) (*models.Pokemaster, error) {
	if err := r.db.WithContext(ctx).Create(master).Error; err != nil {
		return nil, fmt.Errorf("failed to create pokemaster: %w", err)
	}
	return master, nil
}

// CreatePokemon creates a new pokemon
func (r *GormRepository) CreatePokemon(ctx context.Context, pokemon *models.Pokemon) (*models.Pokemon, error) {
	if err := r.db.WithContext(ctx).Create(pokemon).Error; err != nil {
		return nil, fmt.Errorf("failed to create pokemon: %w", err)
	}
	return pokemon, nil
}

// CountMembers counts member rows
func (r *GormRepository) CountMembers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// Ping checks the database connection
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// isUniqueConstraintError detects unique violations whether or not GORM translated them
func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
