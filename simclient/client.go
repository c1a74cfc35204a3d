// Package simclient talks to a running ledger simulator over its TCP
// management protocol: schema queries, ledger reset, and runtime invocation
// of blueprint functions and component methods on behalf of generated stubs.
package simclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

// Invoker dispatches blueprint function and component method calls. Generated
// stubs depend on this interface only, so tests can substitute a fake.
type Invoker interface {
	// CallFunction invokes a free blueprint function at a package address.
	// out receives the decoded return value; pass nil for unit returns.
	CallFunction(pkg types.PackageAddress, blueprint, function string, out any, args ...any) error
	// CallMethod invokes a method on a component instance.
	CallMethod(component types.ComponentAddress, method string, out any, args ...any) error
}

// Client provides a high-level interface to the simulator management API,
// handling request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a client for the simulator at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport. Primarily
// useful for testing with a mock transport.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the simulator.
func (c *Client) Ping(ctx context.Context) (*types.PingResponse, error) {
	const path = "ping"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[types.PingResponse](raw)
}

// ResetLedger wipes the simulator back to a clean genesis state so that
// subsequent schema reads are reproducible.
func (c *Client) ResetLedger(ctx context.Context) (*types.ResetResponse, error) {
	const path = "ledger/reset"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[types.ResetResponse](raw)
}

// GetPackageSchema fetches and decodes the blueprint schemas of the package
// deployed at the given address.
func (c *Client) GetPackageSchema(ctx context.Context, address types.PackageAddress) (*schema.Package, error) {
	pathParams := map[string]string{"address": address.String()}
	const path = "package/{address}/schema"
	raw, err := c.transport.DoCtx(ctx, path, nil, pathParams)
	if err != nil {
		return nil, err
	}
	resp, err := parse[types.PackageSchemaResponse](raw)
	if err != nil {
		return nil, err
	}
	return schema.DecodePackage(resp.Schema)
}

// CallFunction implements Invoker.
func (c *Client) CallFunction(pkg types.PackageAddress, blueprint, function string, out any, args ...any) error {
	req := types.CallRequest{
		Package:   pkg.String(),
		Blueprint: blueprint,
		Function:  function,
	}
	return c.call(req, out, args)
}

// CallMethod implements Invoker.
func (c *Client) CallMethod(component types.ComponentAddress, method string, out any, args ...any) error {
	req := types.CallRequest{
		Component: component.String(),
		Method:    method,
	}
	return c.call(req, out, args)
}

func (c *Client) call(req types.CallRequest, out any, args []any) error {
	encoded, err := schema.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode call args: %w", err)
	}
	req.Args = encoded

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal call request: %w", err)
	}
	const path = "call"
	raw, err := c.transport.Do(path, string(payload), nil)
	if err != nil {
		return err
	}
	resp, err := parse[types.CallResponse](raw)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(resp.Return) == 0 {
		return errors.New("call: empty return payload for non-unit output")
	}
	if err := cbor.Unmarshal(resp.Return, out); err != nil {
		return fmt.Errorf("decode call return: %w", err)
	}
	return nil
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem types.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
