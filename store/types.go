// Package store holds structured records that expose their fields
// through Get/Set accessors only.
package store

import (
	"errors"
	"strings"
)

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// ErrInvalidEmail is returned by Customer.SetEmail.
var ErrInvalidEmail = errors.New("invalid email")

// Order represents a transaction made by a customer.
// Its customer and shipping address are attached after loading.
type Order struct {
	id         string
	customerID string
	status     OrderStatus
	totalCents int64
	customer   *Customer
	shipping   map[string]any
}

// NewOrder creates a pending order.
func NewOrder(id, customerID string, totalCents int64) *Order {
	return &Order{
		id:         id,
		customerID: customerID,
		status:     StatusPending,
		totalCents: totalCents,
	}
}

func (o *Order) GetId() string { return o.id }
func (o *Order) GetCustomerId() string { return o.customerID }
func (o *Order) GetStatus() OrderStatus { return o.status }
func (o *Order) SetStatus(status OrderStatus) { o.status = status }
func (o *Order) GetTotalCents() int64 { return o.totalCents }
func (o *Order) GetCustomer() *Customer { return o.customer }
func (o *Order) SetCustomer(customer *Customer) { o.customer = customer }

// GetShipping returns the shipping address as loaded from the address book.
func (o *Order) GetShipping() map[string]any { return o.shipping }

// SetShipping accepts any dynamic address record.
func (o *Order) SetShipping(address map[string]any) { o.shipping = address }

// Customer represents the user placing orders.
type Customer struct {
	id       string
	email    string
	fullName string
	active   bool
}

// NewCustomer creates an active customer.
func NewCustomer(id, email, fullName string) *Customer {
	return &Customer{id: id, email: email, fullName: fullName, active: true}
}

func (c *Customer) GetId() string { return c.id }
func (c *Customer) GetEmail() string { return c.email }
func (c *Customer) GetFullName() string { return c.fullName }
func (c *Customer) GetActive() bool { return c.active }

// SetEmail rejects addresses without an "@".
func (c *Customer) SetEmail(email string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	c.email = email

	return nil
}
