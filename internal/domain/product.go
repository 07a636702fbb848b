package domain

import (
	"github.com/google/uuid"
	"time"
)

// Product is a catalog listing. The checkout core treats it as read-only;
// Price is the current catalog price, not a snapshot.
type Product struct {
	ID          uuid.UUID
	Title       string
	Description string
	Price       Money
	ImageURL    string
	SellerID    string

	CreatedAt time.Time
}
