package domain

// CartItem is a cart line. Name, Brand, Price and Image are copied from the
// product when the line is created and are not refreshed afterwards.
type CartItem struct {
	ID        string
	ProductID int
	Name      string
	Brand     string
	Price     int
	Image     string
	Quantity  int
}

type CartSnapshot struct {
	SessionID  string
	Items      []CartItem
	Count      int
	TotalPrice int
}

type WishlistEvent struct {
	SessionID string
	ProductID int
	Added     bool
}
