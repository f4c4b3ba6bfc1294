package order

import "time"

// Order is the immutable record of one successful checkout. BankAccount is
// the simulated payment reference returned to the shopper.
type Order struct {
	ID          string    `json:"id" db:"order_id"`
	UserID      string    `json:"userId" db:"user_id"`
	TotalAmount int       `json:"totalAmount" db:"total_amount"`
	BankAccount string    `json:"bankAccount" db:"bank_account"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Items       []Item    `json:"items" db:"-"`
}

// Item is one order line, with the unit price frozen at purchase time.
type Item struct {
	OrderID   string    `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int       `json:"unitPrice" db:"unit_price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
