package profile

// Field names a profile attribute used for matching and scoring.
type Field string

// Profile attribute constants.
const (
	FirstName    Field = "first_name"
	LastName     Field = "last_name"
	Position     Field = "position"
	Organization Field = "organization"
	Location     Field = "location"
	Function     Field = "function"
	Stage        Field = "stage"
	Comments     Field = "comments"
	// FullName is the derived "first last" attribute used by the ranker.
	FullName Field = "name"
)

// Searchable returns the attributes a query term is matched against, in store column order.
func Searchable() []Field {
	return []Field{FirstName, LastName, Position, Organization, Location, Function, Stage, Comments}
}

// IsValid checks if the field is a known attribute.
func (f Field) IsValid() bool {
	switch f {
	case FirstName, LastName, Position, Organization, Location, Function, Stage, Comments, FullName:
		return true
	}
	return false
}
