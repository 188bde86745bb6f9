package domain

// Book is a read-only catalog entry. The catalog is provisioned by the
// seed tool and never mutated by the API.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}
