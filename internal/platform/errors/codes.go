// Package errors provides structured error handling for the UCP shop engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeCatalogFilterInvalid Code = "CATALOG_FILTER_INVALID"

	// Checkout errors
	CodeCheckoutQuantityInvalid   Code = "CHECKOUT_QUANTITY_INVALID"
	CodeCheckoutBuyerEmailEmpty   Code = "CHECKOUT_BUYER_EMAIL_EMPTY"
	CodeCheckoutAddressIncomplete Code = "CHECKOUT_ADDRESS_INCOMPLETE"
	CodeCheckoutNotOpen           Code = "CHECKOUT_NOT_OPEN"
	CodeCheckoutNotReady          Code = "CHECKOUT_NOT_READY_FOR_COMPLETE"
	CodeCheckoutEmpty             Code = "CHECKOUT_EMPTY"
	CodeCheckoutBuyerMissing      Code = "CHECKOUT_BUYER_MISSING"
	CodeCheckoutAddressMissing    Code = "CHECKOUT_ADDRESS_MISSING"

	// Order errors
	CodeOrderDuplicateID Code = "ORDER_DUPLICATE_ID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeCatalogFilterInvalid,
		CodeCheckoutQuantityInvalid,
		CodeCheckoutBuyerEmailEmpty,
		CodeCheckoutAddressIncomplete:
		return codes.InvalidArgument

	// FailedPrecondition - checkout state doesn't allow the operation
	case CodeCheckoutNotOpen,
		CodeCheckoutNotReady,
		CodeCheckoutEmpty,
		CodeCheckoutBuyerMissing,
		CodeCheckoutAddressMissing:
		return codes.FailedPrecondition

	// NotFound - checkout, product, or order doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
