package domain

// MenuCategory groups the client menu shown on the kiosk.
type MenuCategory struct {
	ID   int64
	Name string
}
