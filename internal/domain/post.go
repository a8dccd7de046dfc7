package domain

// Post is an immutable blog entry. Author is a denormalized copy of the
// creating user's username. CreatedAt is an RFC 3339 string stamped by the
// service so the wire format stays a plain ISO-8601 value.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Body      string `gorm:"not null" json:"body"`
	Author    string `gorm:"not null" json:"author"`
	CreatedAt string `gorm:"type:text" json:"created_at"`
}
