package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidozap/notifier/internal/domain/orders"
)

func TestToDomain_ShortSchema(t *testing.T) {
	raw := `{
		"eventType": "ORDER_CREATED",
		"sequence": 3,
		"gatewayInstance": "shop1",
		"order": {
			"code": 42,
			"customerName": "Ana",
			"customerPhone": "5511999990000",
			"paymentMethod": "cash",
			"change": 500,
			"deliveryMethod": "delivery",
			"items": [{
				"name": "Pizza",
				"quantity": 2,
				"price": 0,
				"pricingType": "average",
				"pizzaFlavors": [{"name": "Calabresa", "price": 1000}],
				"complements": [{"name": "Borda", "quantity": 1, "price": 300}]
			}]
		}
	}`

	var msg DeliveryJobMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	assert.Equal(t, orders.EventOrderCreated, msg.Event())
	assert.Equal(t, int64(3), msg.Sequence)
	assert.Equal(t, "shop1", msg.GatewayInstance)

	snap := msg.ToDomain()
	assert.Equal(t, int64(42), snap.Code)
	assert.Equal(t, orders.PaymentCash, snap.PaymentMethod)
	require.NotNil(t, snap.Change)
	assert.Equal(t, orders.Money(500), *snap.Change)
	assert.Equal(t, orders.DeliveryCourier, snap.DeliveryMethod)

	require.Len(t, snap.Lines, 1)
	line := snap.Lines[0]
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, orders.PricingAverage, line.Pricing)
	require.Len(t, line.Flavors, 1)
	assert.Equal(t, orders.Money(1000), line.Flavors[0].Price)
	require.Len(t, line.Complements, 1)
	assert.Equal(t, "Borda", line.Complements[0].Name)
}

func TestToDomain_LongSchemaVariant(t *testing.T) {
	raw := `{
		"eventType": "ORDER_STATUS_UPDATED",
		"order": {
			"code": 7,
			"status": "in_preparation",
			"items": [{
				"name": "Pizza",
				"quantity": 1,
				"orderItemPizzaFlavors": [{"name": "Mussarela", "price": 900}, {"name": "Atum", "price": 1100}],
				"orderItemComplements": [{"name": "Molho", "quantity": 2, "price": 100}]
			}]
		}
	}`

	var msg DeliveryJobMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	snap := msg.ToDomain()
	assert.Equal(t, orders.StatusInPreparation, snap.Status)

	require.Len(t, snap.Lines, 1)
	assert.Len(t, snap.Lines[0].Flavors, 2)
	assert.Len(t, snap.Lines[0].Complements, 1)
	assert.Equal(t, 2, snap.Lines[0].Complements[0].Quantity)
}

func TestToDomain_ShortSchemaWins(t *testing.T) {
	it := ItemPayload{
		PizzaFlavors:          []FlavorPayload{{Name: "A", Price: 100}},
		OrderItemPizzaFlavors: []FlavorPayload{{Name: "B", Price: 200}},
	}
	msg := DeliveryJobMessage{Order: OrderPayload{Items: []ItemPayload{it}}}

	snap := msg.ToDomain()
	require.Len(t, snap.Lines[0].Flavors, 1)
	assert.Equal(t, "A", snap.Lines[0].Flavors[0].Name)
}

func TestToDomain_MissingFieldDefaults(t *testing.T) {
	raw := `{"eventType": "ORDER_CREATED", "order": {"code": 1, "items": [{"name": "Suco", "price": 700}]}}`

	var msg DeliveryJobMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	snap := msg.ToDomain()
	assert.Nil(t, snap.Change)
	require.Len(t, snap.Lines, 1)
	assert.Empty(t, snap.Lines[0].Flavors)

	// an absent quantity reads as 1, not 0: the line still counts in the total
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	assert.Equal(t, orders.Money(700), orders.OrderTotal(snap))
}
