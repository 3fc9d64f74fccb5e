package notifyworker

import (
	"fmt"
	"strings"

	"github.com/pedidozap/notifier/internal/domain/orders"
)

// Fixed status-update notifications. Any other status renders empty, which is
// an accepted no-op notification rather than an error.
const (
	msgInProduction = "Eba! Seu pedido já está em produção! 🍕"
	msgInTransit    = "Boa notícia! Seu pedido saiu para entrega! 🛵"

	msgThanks = "Obrigado pela preferência! 😊"
)

// Render maps an order snapshot plus an event type to the notification text.
// It is pure and total: no side effects, and an empty string (never an error)
// when no template applies.
func Render(order orders.OrderSnapshot, event orders.EventType) string {
	switch event {
	case orders.EventOrderStatusUpdated:
		switch order.Status {
		case orders.StatusInPreparation:
			return msgInProduction
		case orders.StatusCompleted:
			return msgInTransit
		default:
			return ""
		}
	case orders.EventOrderCreated:
		return renderCreated(order)
	default:
		return ""
	}
}

// renderCreated builds the structured multi-line confirmation message.
func renderCreated(order orders.OrderSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pedido n° %d confirmado! ✅\n", order.Code)

	for _, line := range order.Lines {
		b.WriteString("\n")
		if line.Quantity > 1 {
			fmt.Fprintf(&b, "%dx %s\n", line.Quantity, line.Name)
		} else {
			fmt.Fprintf(&b, "%s\n", line.Name)
		}

		if n := len(line.Flavors); n > 0 {
			b.WriteString("  Sabores:\n")
			for _, f := range line.Flavors {
				fmt.Fprintf(&b, "  1/%d %s\n", n, f.Name)
			}
		}

		if len(line.Complements) > 0 {
			b.WriteString("  Complementos:\n")
			for _, c := range line.Complements {
				fmt.Fprintf(&b, "  %dx %s\n", c.Quantity, c.Name)
			}
		}

		if line.Notes != "" {
			fmt.Fprintf(&b, "  Obs: %s\n", line.Notes)
		}
	}

	if order.Notes != "" {
		fmt.Fprintf(&b, "\nObs: %s\n", order.Notes)
	}

	fmt.Fprintf(&b, "\nPagamento: %s\n", paymentLine(order))
	fmt.Fprintf(&b, "Entrega: %s\n", deliveryLine(order.DeliveryMethod))
	fmt.Fprintf(&b, "Total: %s\n", orders.OrderTotal(order).FormatBRL())

	b.WriteString("\n")
	b.WriteString(msgThanks)

	return b.String()
}

// paymentLine renders the payment method. Unknown methods default to the card
// phrasing; only cash carries change information.
func paymentLine(order orders.OrderSnapshot) string {
	switch order.PaymentMethod {
	case orders.PaymentCash:
		if order.Change != nil {
			return fmt.Sprintf("💵 Dinheiro (troco para %s)", order.Change.FormatBRL())
		}
		return "💵 Dinheiro (não precisa de troco)"
	case orders.PaymentPix:
		return "💵 Pix"
	default:
		return "💳 Cartão"
	}
}

// deliveryLine renders the delivery method, defaulting to dine-in when the
// code is absent or unrecognized.
func deliveryLine(method orders.DeliveryMethod) string {
	switch method {
	case orders.DeliveryCourier:
		return "🛵 Entrega no endereço"
	case orders.DeliveryPickup:
		return "🏪 Retirada no balcão"
	default:
		return "🍽️ Consumo no local"
	}
}
