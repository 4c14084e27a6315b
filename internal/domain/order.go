package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// transitions is the fulfillment lifecycle. delivered and cancelled are
// terminal. Cancellation is only reachable before shipment.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// ParseOrderStatus validates a client-supplied status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leads out of the status.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// ShippingInfo is captured from the checkout form and embedded into the
// order at creation. It is never mutated afterwards.
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// OrderItem snapshots a cart line at checkout. Catalog prices may change
// later; the order keeps the values the customer saw.
type OrderItem struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	ImageURL       string `json:"image,omitempty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// Order is created once at checkout. Only Status, CancelledAt and
// TrackingNumber change after creation; all other fields are write-once.
type Order struct {
	ID             string       `json:"id"`
	OrderNumber    string       `json:"orderNumber"`
	CustomerID     string       `json:"customerId"`
	Items          []OrderItem  `json:"items"`
	ShippingInfo   ShippingInfo `json:"shippingInfo"`
	SubtotalCents  int64        `json:"subtotalCents"`
	ShippingCents  int64        `json:"shippingCents"`
	TaxCents       int64        `json:"taxCents"`
	TotalCents     int64        `json:"totalCents"`
	Status         OrderStatus  `json:"status"`
	TrackingNumber string       `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	CancelledAt    *time.Time   `json:"cancelledAt,omitempty"`
}

// NewOrderNumber derives the customer-visible order number from the
// creation timestamp. Millisecond granularity keeps it unique per process.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("COD-%d", now.UnixMilli())
}
