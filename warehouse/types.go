// Package warehouse holds structured records resolved through their
// exported fields and struct tags.
package warehouse

import (
	"time"
)

// Address represents a physical shipping address.
type Address struct {
	ID         uint   `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Carrier ships parcels.
type Carrier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Shipment is a parcel leaving the warehouse for an order.
type Shipment struct {
	ID        uint   `json:"id"`
	OrderRef  string `link:"orderId" json:"order_ref"`
	AddressID uint   `json:"address_id"`
	Carrier   string `json:"carrier"`

	// Attached by linking.
	Address     *Address       `json:"address,omitempty"`
	CarrierInfo Carrier        `link:"carrierInfo" json:"carrier_info"`
	Order       map[string]any `json:"order,omitempty"`

	ShippedAt *time.Time `json:"shipped_at,omitempty"`
}
