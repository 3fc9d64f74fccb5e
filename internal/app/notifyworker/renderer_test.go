package notifyworker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedidozap/notifier/internal/domain/orders"
)

func statusOrder(status orders.OrderStatus) orders.OrderSnapshot {
	return orders.OrderSnapshot{Code: 7, Status: status}
}

func TestRender_StatusUpdated(t *testing.T) {
	assert.Equal(t, msgInProduction,
		Render(statusOrder(orders.StatusInPreparation), orders.EventOrderStatusUpdated))
	assert.Equal(t, msgInTransit,
		Render(statusOrder(orders.StatusCompleted), orders.EventOrderStatusUpdated))

	// any other status is an accepted no-op, not an error
	assert.Equal(t, "", Render(statusOrder(orders.StatusPending), orders.EventOrderStatusUpdated))
	assert.Equal(t, "", Render(statusOrder(orders.StatusCancelled), orders.EventOrderStatusUpdated))
	assert.Equal(t, "", Render(statusOrder("weird"), orders.EventOrderStatusUpdated))
}

func TestRender_UnknownEventIsEmpty(t *testing.T) {
	assert.Equal(t, "", Render(statusOrder(orders.StatusPending), "ORDER_DELETED"))
}

func createdOrder() orders.OrderSnapshot {
	change := orders.Money(500)
	return orders.OrderSnapshot{
		Code:          42,
		CustomerName:  "Ana",
		CustomerPhone: "5511999990000",
		PaymentMethod: orders.PaymentCash,
		Change:        &change,
		Lines: []orders.OrderLine{
			{
				Name:     "Pizza",
				Quantity: 1,
				Pricing:  orders.PricingAverage,
				Flavors: []orders.Flavor{
					{Name: "Calabresa", Price: 1000},
					{Name: "Frango com catupiry", Price: 1400},
				},
			},
		},
	}
}

func TestRender_OrderCreated(t *testing.T) {
	got := Render(createdOrder(), orders.EventOrderCreated)

	assert.Contains(t, got, "n° 42")
	assert.Contains(t, got, "Sabores:")
	assert.Contains(t, got, "1/2 Calabresa")
	assert.Contains(t, got, "1/2 Frango com catupiry")
	assert.Contains(t, got, "Total: R$ 12,00") // average of 1000 and 1400
	assert.Contains(t, got, "troco para R$ 5,00")
	assert.Contains(t, got, msgThanks)

	// quantity prefix is omitted at qty=1
	assert.Contains(t, got, "\nPizza\n")
	assert.NotContains(t, got, "1x Pizza")
}

func TestRender_QuantityPrefix(t *testing.T) {
	order := createdOrder()
	order.Lines[0].Quantity = 2
	got := Render(order, orders.EventOrderCreated)
	assert.Contains(t, got, "2x Pizza")
}

func TestRender_EmptyBlocksAreSuppressed(t *testing.T) {
	order := orders.OrderSnapshot{
		Code:  9,
		Lines: []orders.OrderLine{{Name: "Refrigerante", Quantity: 1, Price: 800}},
	}
	got := Render(order, orders.EventOrderCreated)

	assert.NotContains(t, got, "Sabores:")
	assert.NotContains(t, got, "Complementos:")
	assert.NotContains(t, got, "Obs:")
}

func TestRender_NotesBlocks(t *testing.T) {
	order := createdOrder()
	order.Notes = "entregar na portaria"
	order.Lines[0].Notes = "sem cebola"
	order.Lines[0].Complements = []orders.Complement{{Name: "Borda recheada", Quantity: 1, Price: 0}}

	got := Render(order, orders.EventOrderCreated)
	assert.Contains(t, got, "  Obs: sem cebola")
	assert.Contains(t, got, "\nObs: entregar na portaria")
	assert.Contains(t, got, "Complementos:")
	assert.Contains(t, got, "1x Borda recheada")
}

func TestRender_PaymentDefaults(t *testing.T) {
	order := createdOrder()

	order.PaymentMethod = orders.PaymentPix
	assert.Contains(t, Render(order, orders.EventOrderCreated), "💵 Pix")

	order.PaymentMethod = "voucher"
	assert.Contains(t, Render(order, orders.EventOrderCreated), "💳 Cartão")

	order.PaymentMethod = orders.PaymentCash
	order.Change = nil
	assert.Contains(t, Render(order, orders.EventOrderCreated), "não precisa de troco")
}

func TestRender_DeliveryDefaults(t *testing.T) {
	order := createdOrder()

	order.DeliveryMethod = orders.DeliveryCourier
	assert.Contains(t, Render(order, orders.EventOrderCreated), "Entrega no endereço")

	order.DeliveryMethod = orders.DeliveryPickup
	assert.Contains(t, Render(order, orders.EventOrderCreated), "Retirada no balcão")

	// absent or unrecognized codes fall back to dine-in
	order.DeliveryMethod = ""
	assert.Contains(t, Render(order, orders.EventOrderCreated), "Consumo no local")
	order.DeliveryMethod = "drone"
	assert.Contains(t, Render(order, orders.EventOrderCreated), "Consumo no local")
}

func TestRender_Idempotent(t *testing.T) {
	order := createdOrder()
	first := Render(order, orders.EventOrderCreated)
	second := Render(order, orders.EventOrderCreated)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "Pedido n° 42"))
}
