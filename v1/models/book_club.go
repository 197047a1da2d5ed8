package models

// BookClub is a named group that members belong to
type BookClub struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Location *string `gorm:"type:varchar(255)" json:"location,omitempty"`
}

// TableName sets the table name for BookClub
func (BookClub) TableName() string {
	return "book_clubs"
}
