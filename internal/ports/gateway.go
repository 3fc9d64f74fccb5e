package ports

import (
	"context"

	"github.com/pedidozap/notifier/internal/shared/gateway"
)

// GatewayClient is the outbound façade the processor talks to. Both calls are
// real synchronous network requests against the messaging provider.
type GatewayClient interface {
	InstanceState(ctx context.Context, instanceID string) (gateway.InstanceState, error)
	SendText(ctx context.Context, instanceID, phoneNumber, text string) error
}
