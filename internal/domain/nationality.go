package domain

// Nationality is a reference-data row guests point at. It cannot be
// removed while any guest still references it.
type Nationality struct {
	ID   int64
	Name string
}
