package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry as served by the external menu API. The client
// never mutates it.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// CartLine is a denormalized snapshot of a menu item taken at add-time, plus
// the selected quantity. A cart holds at most one line per item id.
type CartLine struct {
	ItemID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

type Address struct {
	Street    string `json:"street"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentBankTransfer   PaymentMethod = "Bank Transfer"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Order is an immutable snapshot taken at submission time. Status is the only
// field an external collaborator may change later. LegacyID carries the
// identifier older persisted records used before OrderID existed.
type Order struct {
	OrderID       string          `json:"orderId"`
	LegacyID      string          `json:"id,omitempty"`
	Items         []CartLine      `json:"items"`
	Address       Address         `json:"address"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	TransactionID string          `json:"transactionId,omitempty"`
	Date          time.Time       `json:"date"`
}
