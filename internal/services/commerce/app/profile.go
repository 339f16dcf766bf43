package app

import "github.com/louisbranch/ucp.shop/internal/services/commerce/domain/order"

// Capability names advertised in the discovery profile.
const (
	CapabilityCheckout = "dev.ucp.shopping.checkout"
	CapabilityOrder    = "dev.ucp.shopping.order"
	CapabilityDiscover = "dev.ucp.shopping.discovery"
)

// ProtocolVersion is the UCP revision this engine implements.
const ProtocolVersion = "2026-01-11"

// Profile is the static merchant capability descriptor served at
// discovery time.
type Profile struct {
	Version         string
	Capabilities    []string
	PaymentHandlers []string
	Seller          order.Seller
}

// DiscoveryProfile returns the engine's capability and merchant descriptor.
func (e *Engine) DiscoveryProfile() Profile {
	return Profile{
		Version: ProtocolVersion,
		Capabilities: []string{
			CapabilityCheckout,
			CapabilityOrder,
			CapabilityDiscover,
		},
		PaymentHandlers: []string{"mock_payment"},
		Seller:          e.seller,
	}
}
