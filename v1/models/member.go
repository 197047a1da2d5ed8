package models

import "strings"

// Member is a person listed in the directory, optionally attached to a book club.
// BookClubID is a plain column; the referenced club may no longer exist.
type Member struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FirstName    string  `gorm:"type:varchar(255);not null" json:"firstName"`
	LastName     string  `gorm:"type:varchar(255);not null" json:"lastName"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_members_email" json:"email"`
	Bio          *string `gorm:"type:text" json:"bio,omitempty"`
	FavoriteBook *string `gorm:"type:varchar(255)" json:"favoriteBook,omitempty"`
	BookClubID   *uint   `gorm:"index:idx_members_book_club_id" json:"bookClubId,omitempty"`
	Leader       bool    `gorm:"not null;default:false" json:"leader"`
}

// TableName sets the table name for Member
func (Member) TableName() string {
	return "members"
}

// FullName joins first and last name
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// BelongsTo reports whether the member references the given club
func (m Member) BelongsTo(clubID uint) bool {
	return m.BookClubID != nil && *m.BookClubID == clubID
}

// LeaderOf returns the first member flagged as leader.
// A club without a leader is valid, so ok is false rather than an error.
func LeaderOf(members []Member) (leader *Member, ok bool) {
	for i := range members {
		if members[i].Leader {
			return &members[i], true
		}
	}
	return nil, false
}

// LeadersOf returns every member flagged as leader, in input order.
// Nothing limits a club to a single leader.
func LeadersOf(members []Member) []Member {
	leaders := make([]Member, 0)
	for _, m := range members {
		if m.Leader {
			leaders = append(leaders, m)
		}
	}
	return leaders
}
