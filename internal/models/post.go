package models

// Post is a piece of content owned by exactly one User.
type Post struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Title  string `gorm:"not null"`
	Body   string `gorm:"type:text;not null"`
	UserID uint   `gorm:"not null;index"`
}

// PostView is the representation of a Post returned to callers. The owning
// user_id is addressed through the URL and is not repeated in the body.
type PostView struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// View returns the caller-facing representation of p.
func (p *Post) View() PostView {
	return PostView{ID: p.ID, Title: p.Title, Body: p.Body}
}

// PostViews maps a slice of posts to their views, preserving order.
func PostViews(posts []Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].View())
	}
	return views
}

// PersistentModels lists every record type backed by a table, parents first.
func PersistentModels() []any {
	return []any{&User{}, &Post{}}
}
