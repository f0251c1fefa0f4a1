package model

const EmptyTitle string = ""

// Movie is an immutable catalog entry. IDs come from the external catalog
// and are unique within it.
type Movie struct {
	ID         int64
	Title      string
	PosterPath string
	Overview   string
}
