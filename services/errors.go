package services

import "fmt"

// NotFoundError reports a missing product, order or payment order.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func notFound(resource string, key any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprint(key)}
}

// StockError reports insufficient inventory for a requested quantity.
type StockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

type EmptyCartError struct {
	SessionID string
}

func (e *EmptyCartError) Error() string {
	return "cart is empty"
}

// InvalidStateTransitionError reports an illegal order status change.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %s to %s", e.From, e.To)
}

// PaymentError wraps signature mismatches, provider call failures and refund
// precondition violations. Provider-internal diagnostics stay in Err and are
// not exposed beyond the message.
type PaymentError struct {
	Reason string
	Err    error
}

func (e *PaymentError) Error() string {
	return e.Reason
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
