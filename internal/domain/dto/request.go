// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model, providing validation
// and serialization for API communication.
package dto

// PlanRequest represents the JSON request body for the plan endpoint.
//
// SetID and Numbers are required. ShippingPolicy and UnsatisfiablePolicy are
// optional overrides of the server defaults; validation of the policy values
// themselves happens when they are parsed.
type PlanRequest struct {
	// SetID identifies the card set to plan purchases for.
	SetID string `json:"set_id" binding:"required"`
	// Numbers lists the card numbers within the set to acquire.
	Numbers []string `json:"numbers" binding:"required,min=1"`
	// ShippingPolicy optionally overrides the configured shipping policy
	// ("consolidated" or "per_offer").
	ShippingPolicy string `json:"shipping_policy,omitempty"`
	// UnsatisfiablePolicy optionally overrides how items without offers are
	// handled ("exclude" or "abort").
	UnsatisfiablePolicy string `json:"unsatisfiable_policy,omitempty"`
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrMissingSetID is returned when set_id is empty.
	ErrMissingSetID = &ValidationError{
		Field:   "set_id",
		Message: "must not be empty",
	}
	// ErrMissingNumbers is returned when numbers is empty.
	ErrMissingNumbers = &ValidationError{
		Field:   "numbers",
		Message: "must contain at least one card number",
	}
	// ErrBlankNumber is returned when a card number is blank.
	ErrBlankNumber = &ValidationError{
		Field:   "numbers",
		Message: "must not contain blank entries",
	}
)

// Validate performs custom validation on the request.
func (r *PlanRequest) Validate() error {
	if r.SetID == "" {
		return ErrMissingSetID
	}
	if len(r.Numbers) == 0 {
		return ErrMissingNumbers
	}
	for _, n := range r.Numbers {
		if n == "" {
			return ErrBlankNumber
		}
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
