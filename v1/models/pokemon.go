package models

// Pokemaster trains pokemon
type Pokemaster struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Age   *int    `json:"age,omitempty"`
	Email *string `gorm:"type:varchar(255)" json:"email,omitempty"`
}

// TableName sets the table name for Pokemaster
func (Pokemaster) TableName() string {
	return "pokemasters"
}

// Pokemon is owned by at most one pokemaster
type Pokemon struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Ability      *string `gorm:"type:varchar(255)" json:"ability,omitempty"`
	Poketype     *string `gorm:"type:varchar(255)" json:"poketype,omitempty"`
	Strength     *int    `json:"strength,omitempty"`
	Age          *int    `json:"age,omitempty"`
	PokemasterID *uint   `gorm:"index:idx_pokemons_pokemaster_id" json:"pokemasterId,omitempty"`
}

// TableName sets the table name for Pokemon
func (Pokemon) TableName() string {
	return "pokemons"
}

// evolutions maps a form to the one it evolves into
var evolutions = map[string]string{
	"Bulbasaur":  "Ivysaur",
	"Ivysaur":    "Venusaur",
	"Charmander": "Charmeleon",
	"Charmeleon": "Charizard",
	"Squirtle":   "Wartortle",
	"Wartortle":  "Blastoise",
	"Caterpie":   "Metapod",
	"Metapod":    "Butterfree",
	"Pichu":      "Pikachu",
	"Pikachu":    "Raichu",
}

// Evolve returns the next form of the pokemon, one year older.
// Final and unknown forms are returned unchanged with ok=false.
func (p Pokemon) Evolve() (evolved Pokemon, ok bool) {
	next, found := evolutions[p.Name]
	if !found {
		return p, false
	}

	evolved = p
	evolved.Name = next
	age := 1
	if p.Age != nil {
		age = *p.Age + 1
	}
	evolved.Age = &age
	return evolved, true
}
