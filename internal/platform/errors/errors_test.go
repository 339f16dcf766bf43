package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeCheckoutNotOpen, "checkout is not open")
	target := New(CodeCheckoutNotOpen, "different message")
	if !errors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}

	other := New(CodeNotFound, "record not found")
	if errors.Is(err, other) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(CodeUnknown, "store order", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want codes.Code
	}{
		{CodeCheckoutQuantityInvalid, codes.InvalidArgument},
		{CodeCheckoutAddressIncomplete, codes.InvalidArgument},
		{CodeCatalogFilterInvalid, codes.InvalidArgument},
		{CodeCheckoutNotOpen, codes.FailedPrecondition},
		{CodeCheckoutNotReady, codes.FailedPrecondition},
		{CodeCheckoutEmpty, codes.FailedPrecondition},
		{CodeCheckoutBuyerMissing, codes.FailedPrecondition},
		{CodeCheckoutAddressMissing, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeOrderDuplicateID, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range cases {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("GRPCCode(%s) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestToGRPCStatusCarriesReason(t *testing.T) {
	err := WithMetadata(CodeCheckoutAddressIncomplete, "address is missing city", map[string]string{"field": "city"})
	st, ok := status.FromError(err.ToGRPCStatus())
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("status code = %v, want InvalidArgument", st.Code())
	}
	if st.Message() != "address is missing city" {
		t.Fatalf("status message = %q", st.Message())
	}
}
