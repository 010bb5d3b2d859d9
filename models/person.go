package models

// The two fixed members of a family.
const (
	PersonMaru  = "maru"
	PersonMarty = "marty"
)

// ValidPerson reports whether p is one of the two known persons.
func ValidPerson(p string) bool {
	return p == PersonMaru || p == PersonMarty
}
