package types

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response from the
// simulator management API.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type ResetResponse struct {
	Epoch uint64 `json:"epoch"`
}

// PackageSchemaResponse carries the canonical-CBOR schema payload for every
// blueprint in a package. The payload is base64 inside the JSON envelope.
type PackageSchemaResponse struct {
	Address string `json:"address"`
	Schema  []byte `json:"schema"`
}

// CallRequest invokes a blueprint function or a component method. Exactly one
// of Package/Blueprint/Function or Component/Method is set. Args is a
// canonical-CBOR array of the encoded arguments.
type CallRequest struct {
	Package   string `json:"package,omitempty"`
	Blueprint string `json:"blueprint,omitempty"`
	Function  string `json:"function,omitempty"`

	Component string `json:"component,omitempty"`
	Method    string `json:"method,omitempty"`

	Args []byte `json:"args,omitempty"`
}

// CallResponse carries the canonical-CBOR encoded return value. Empty for
// unit-returning calls.
type CallResponse struct {
	Return []byte `json:"return,omitempty"`
}
