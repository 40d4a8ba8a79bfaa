package demo

import "time"

// Customer is a row of the demo customers table.
type Customer struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	Email     string `gorm:"size:255"`
	City      string `gorm:"size:100"`
	Country   string `gorm:"size:100"`
	CreatedAt time.Time
}

// Product is a row of the demo products table.
type Product struct {
	ID       uint64 `gorm:"primaryKey"`
	Name     string `gorm:"size:100"`
	Category string `gorm:"size:100"`
	Price    float64
}

// Order is a row of the demo orders table.
type Order struct {
	ID         uint64 `gorm:"primaryKey"`
	CustomerID uint64 `gorm:"index"`
	Status     string `gorm:"size:20"`
	OrderDate  time.Time
	Total      float64
	Items      []OrderItem
}

// OrderItem is a row of the demo order_items table.
type OrderItem struct {
	ID        uint64 `gorm:"primaryKey"`
	OrderID   uint64 `gorm:"index"`
	ProductID uint64 `gorm:"index"`
	Quantity  int
	UnitPrice float64
}

func tables() []any {
	return []any{&Customer{}, &Product{}, &Order{}, &OrderItem{}}
}
