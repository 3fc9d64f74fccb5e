package contracts

import (
	"github.com/pedidozap/notifier/internal/domain/orders"
)

// DeliveryJobMessage is the wire format consumed from the notify queue.
type DeliveryJobMessage struct {
	EventType       string       `json:"eventType"` // "ORDER_CREATED" | "ORDER_STATUS_UPDATED"
	Order           OrderPayload `json:"order"`
	Sequence        int64        `json:"sequence"` // monotonic per order
	GatewayInstance string       `json:"gatewayInstance"`
}

// OrderPayload carries the order snapshot as produced upstream. All monetary
// values are integer minor units (centavos).
type OrderPayload struct {
	Code           int64         `json:"code"`
	CustomerName   string        `json:"customerName"`
	CustomerPhone  string        `json:"customerPhone"`
	Notes          string        `json:"notes,omitempty"`
	PaymentMethod  string        `json:"paymentMethod"`
	Change         *int64        `json:"change,omitempty"`
	Status         string        `json:"status"`
	DeliveryMethod string        `json:"deliveryMethod,omitempty"`
	Items          []ItemPayload `json:"items"`
}

// ItemPayload tolerates both historical field-name schemas for flavors and
// complements; the adapter below folds them into one shape so the core never
// branches on wire variants.
type ItemPayload struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Notes       string `json:"notes,omitempty"`
	PricingType string `json:"pricingType,omitempty"` // "sum" | "average" | "max"

	PizzaFlavors          []FlavorPayload `json:"pizzaFlavors,omitempty"`
	OrderItemPizzaFlavors []FlavorPayload `json:"orderItemPizzaFlavors,omitempty"`

	Complements          []ComplementPayload `json:"complements,omitempty"`
	OrderItemComplements []ComplementPayload `json:"orderItemComplements,omitempty"`
}

// FlavorPayload is one priced flavor of a composite item.
type FlavorPayload struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ComplementPayload is one add-on of an item.
type ComplementPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price,omitempty"`
}

// ToDomain normalizes the wire payload into the internal snapshot.
func (m DeliveryJobMessage) ToDomain() orders.OrderSnapshot {
	o := m.Order

	snap := orders.OrderSnapshot{
		Code:           o.Code,
		CustomerName:   o.CustomerName,
		CustomerPhone:  o.CustomerPhone,
		Notes:          o.Notes,
		PaymentMethod:  orders.PaymentMethod(o.PaymentMethod),
		Status:         orders.OrderStatus(o.Status),
		DeliveryMethod: orders.DeliveryMethod(o.DeliveryMethod),
	}
	if o.Change != nil {
		c := orders.Money(*o.Change)
		snap.Change = &c
	}

	for _, it := range o.Items {
		// a line exists because it was ordered at least once; an absent
		// quantity must not zero the line out of the total
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}

		line := orders.OrderLine{
			Name:     it.Name,
			Quantity: qty,
			Price:    orders.Money(it.Price),
			Notes:    it.Notes,
			Pricing:  orders.PricingStrategy(it.PricingType),
		}

		for _, f := range mergeFlavors(it) {
			line.Flavors = append(line.Flavors, orders.Flavor{
				Name:  f.Name,
				Price: orders.Money(f.Price),
			})
		}
		for _, c := range mergeComplements(it) {
			line.Complements = append(line.Complements, orders.Complement{
				Name:     c.Name,
				Quantity: c.Quantity,
				Price:    orders.Money(c.Price),
			})
		}

		snap.Lines = append(snap.Lines, line)
	}

	return snap
}

// Event maps the wire tag to the domain event type.
func (m DeliveryJobMessage) Event() orders.EventType {
	return orders.EventType(m.EventType)
}

// mergeFlavors prefers the short field name and falls back to the long one.
func mergeFlavors(it ItemPayload) []FlavorPayload {
	if len(it.PizzaFlavors) > 0 {
		return it.PizzaFlavors
	}
	return it.OrderItemPizzaFlavors
}

// mergeComplements prefers the short field name and falls back to the long one.
func mergeComplements(it ItemPayload) []ComplementPayload {
	if len(it.Complements) > 0 {
		return it.Complements
	}
	return it.OrderItemComplements
}
