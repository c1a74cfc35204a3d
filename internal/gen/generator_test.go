package gen_test

import (
	"context"
	"fmt"
	"go/format"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/gen"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

const (
	addrA = types.PackageAddress("package_sim1aaaaaaaaaaaaaaaa")
	addrB = types.PackageAddress("package_sim1bbbbbbbbbbbbbbbb")
)

// fakeLedger serves canned schemas without a simulator process.
type fakeLedger struct {
	packages map[types.PackageAddress]*schema.Package
	resets   int
}

func (f *fakeLedger) ResetLedger(ctx context.Context) (*types.ResetResponse, error) {
	f.resets++
	return &types.ResetResponse{Epoch: 1}, nil
}

func (f *fakeLedger) GetPackageSchema(ctx context.Context, address types.PackageAddress) (*schema.Package, error) {
	pkg, ok := f.packages[address]
	if !ok {
		return nil, fmt.Errorf("package %s not found", address)
	}
	return pkg, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGenerator(ledger *fakeLedger) *gen.Generator {
	return gen.New(ledger, gen.Options{OutputPath: "unused.go"}, testLogger())
}

func prim(k schema.Kind) schema.TypeRef { return schema.TypeRef{Kind: k} }

func named(pkg, name string) schema.TypeRef {
	return schema.TypeRef{Kind: schema.KindNamed, Ref: &schema.TypeName{Package: pkg, Name: name}}
}

func refTo(r schema.TypeRef) *schema.TypeRef { return &r }

func TestEmptyInputYieldsPreambleOnly(t *testing.T) {
	ledger := &fakeLedger{}
	text, skipped, err := newGenerator(ledger).Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	assert.Contains(t, text, "// Code generated by bindgen. DO NOT EDIT.")
	assert.Contains(t, text, "package native")
	assert.NotContains(t, text, "\ntype ")
	assert.Equal(t, 1, ledger.resets, "ledger must be reset once before the batch")
}

func TestPingScenario(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Faucet",
			Functions: []schema.Function{{Name: "ping"}},
		}}},
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	assert.Contains(t, text, "type FaucetBlueprint struct")
	assert.Contains(t, text, "func (b FaucetBlueprint) Ping() error")
	assert.Contains(t, text, `b.invoker.CallFunction(b.Package, "Faucet", "ping", nil)`)
	// No methods, so no component handle.
	assert.NotContains(t, text, "type Faucet struct")
}

func TestBuildIsIdempotent(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: richPackage(),
	}}
	targets := []gen.Target{{Address: addrA}}

	first, _, err := newGenerator(ledger).Build(context.Background(), targets)
	require.NoError(t, err)
	second, _, err := newGenerator(ledger).Build(context.Background(), targets)
	require.NoError(t, err)

	assert.Equal(t, first, second, "two runs against an unchanged ledger must be byte-identical")
}

func TestInputNoteDoesNotAffectOutput(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: richPackage(),
	}}

	plain, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	annotated, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA, Note: "system faucet"}})
	require.NoError(t, err)

	assert.Equal(t, plain, annotated)
}

func TestSharedTypeEmittedOnce(t *testing.T) {
	meta := schema.TypeDef{
		Package: "common", Name: "Meta", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "size", Type: prim(schema.KindU32)}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Alpha",
			Functions: []schema.Function{{Name: "get_meta", Output: refTo(named("common", "Meta"))}},
			Types:     []schema.TypeDef{meta},
		}}},
		addrB: {Blueprints: []schema.Blueprint{{
			Name:      "Beta",
			Functions: []schema.Function{{Name: "describe", Output: refTo(named("common", "Meta"))}},
			Types:     []schema.TypeDef{meta},
		}}},
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}, {Address: addrB}})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	assert.Equal(t, 1, strings.Count(text, "type Meta struct"), "identical shared definitions must collapse to one declaration")
}

func TestConflictingDefinitionsFail(t *testing.T) {
	metaU32 := schema.TypeDef{
		Package: "common", Name: "Meta", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "size", Type: prim(schema.KindU32)}},
	}
	metaString := schema.TypeDef{
		Package: "common", Name: "Meta", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "size", Type: prim(schema.KindString)}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Alpha",
			Functions: []schema.Function{{Name: "get_meta", Output: refTo(named("common", "Meta"))}},
			Types:     []schema.TypeDef{metaU32},
		}}},
		addrB: {Blueprints: []schema.Blueprint{{
			Name:      "Beta",
			Functions: []schema.Function{{Name: "describe", Output: refTo(named("common", "Meta"))}},
			Types:     []schema.TypeDef{metaString},
		}}},
	}}

	_, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}, {Address: addrB}})
	var conflict *gen.DuplicateDefinitionConflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "common::Meta", conflict.Key.String())
	assert.Equal(t, gen.ExitConflict, gen.ExitCode(err))
}

func TestConflictingDefinitionsWithinBlueprintFail(t *testing.T) {
	metaU32 := schema.TypeDef{
		Package: "common", Name: "Meta", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "size", Type: prim(schema.KindU32)}},
	}
	metaString := schema.TypeDef{
		Package: "common", Name: "Meta", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "size", Type: prim(schema.KindString)}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Alpha",
			Functions: []schema.Function{{Name: "get_meta", Output: refTo(named("common", "Meta"))}},
			Types:     []schema.TypeDef{metaU32, metaString},
		}}},
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	var conflict *gen.DuplicateDefinitionConflict
	require.ErrorAs(t, err, &conflict, "neither duplicate may silently win")
	assert.Equal(t, "common::Meta", conflict.Key.String())
	assert.Empty(t, skipped)
	assert.Empty(t, text, "a conflict aborts the whole batch")
}

func TestIdenticalDuplicateDefinitionsCollapse(t *testing.T) {
	meta := schema.TypeDef{
		Package: "common", Name: "Meta", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "size", Type: prim(schema.KindU32)}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Alpha",
			Functions: []schema.Function{{Name: "get_meta", Output: refTo(named("common", "Meta"))}},
			Types:     []schema.TypeDef{meta, meta},
		}}},
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, 1, strings.Count(text, "type Meta struct"))
}

func TestSameNameDistinctPackages(t *testing.T) {
	configA := schema.TypeDef{
		Package: "alpha", Name: "Config", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "limit", Type: prim(schema.KindU64)}},
	}
	configB := schema.TypeDef{
		Package: "beta", Name: "Config", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "label", Type: prim(schema.KindString)}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Alpha",
			Functions: []schema.Function{{Name: "config", Output: refTo(named("alpha", "Config"))}},
			Types:     []schema.TypeDef{configA},
		}}},
		addrB: {Blueprints: []schema.Blueprint{{
			Name:      "Beta",
			Functions: []schema.Function{{Name: "config", Output: refTo(named("beta", "Config"))}},
			Types:     []schema.TypeDef{configB},
		}}},
	}}

	text, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}, {Address: addrB}})
	require.NoError(t, err)

	assert.Contains(t, text, "type Config struct")
	assert.Contains(t, text, "type Config2 struct")
}

func TestDependencyFirstEmission(t *testing.T) {
	inner := schema.TypeDef{
		Package: "alpha", Name: "Inner", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "value", Type: prim(schema.KindU8)}},
	}
	outer := schema.TypeDef{
		Package: "alpha", Name: "Outer", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "inner", Type: named("alpha", "Inner")}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "Alpha",
			Functions: []schema.Function{{Name: "get", Output: refTo(named("alpha", "Outer"))}},
			Types:     []schema.TypeDef{outer, inner},
		}}},
	}}

	text, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)

	innerAt := strings.Index(text, "type Inner struct")
	outerAt := strings.Index(text, "type Outer struct")
	require.GreaterOrEqual(t, innerAt, 0)
	require.GreaterOrEqual(t, outerAt, 0)
	assert.Less(t, innerAt, outerAt, "a referenced type must be declared before its referrer")
}

func TestAllOrNothingPerBlueprint(t *testing.T) {
	widget := schema.TypeDef{
		Package: "alpha", Name: "Widget", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "id", Type: prim(schema.KindU64)}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{
			{
				Name:      "Good",
				Functions: []schema.Function{{Name: "ping"}},
			},
			{
				Name: "Bad",
				Functions: []schema.Function{
					{Name: "keep", Output: refTo(named("alpha", "Widget"))},
					{Name: "lookup", Params: []schema.Param{{
						// Decimal map keys have no comparable host form.
						Name: "index",
						Type: schema.TypeRef{Kind: schema.KindMap, Key: refTo(prim(schema.KindDecimal)), Value: refTo(prim(schema.KindString))},
					}}},
				},
				Types: []schema.TypeDef{widget},
			},
		}},
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	var unsupported *gen.UnsupportedTypeError
	assert.ErrorAs(t, skipped[0], &unsupported)
	assert.Equal(t, "Bad", unsupported.Blueprint)

	assert.Contains(t, text, "type GoodBlueprint struct")
	assert.NotContains(t, text, "BadBlueprint", "a failed blueprint must emit zero callables")
	assert.NotContains(t, text, "type Widget struct", "types staged for a failed blueprint must not leak into the output")
}

func TestDirectCycleIsUnsupported(t *testing.T) {
	node := schema.TypeDef{
		Package: "alpha", Name: "Node", Kind: schema.DefStruct,
		Fields: []schema.Field{{Name: "next", Type: named("alpha", "Node")}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "List",
			Functions: []schema.Function{{Name: "head", Output: refTo(named("alpha", "Node"))}},
			Types:     []schema.TypeDef{node},
		}}},
	}}

	_, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	var unsupported *gen.UnsupportedTypeError
	require.ErrorAs(t, skipped[0], &unsupported)
	assert.Contains(t, unsupported.Reason, "without indirection")
}

func TestCycleThroughIndirectionIsFine(t *testing.T) {
	node := schema.TypeDef{
		Package: "alpha", Name: "Node", Kind: schema.DefStruct,
		Fields: []schema.Field{{
			Name: "next",
			Type: schema.TypeRef{Kind: schema.KindOption, Element: refTo(named("alpha", "Node"))},
		}},
	}
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{
			Name:      "List",
			Functions: []schema.Function{{Name: "head", Output: refTo(named("alpha", "Node"))}},
			Types:     []schema.TypeDef{node},
		}}},
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Contains(t, text, "Next *Node")
}

func TestUnknownAddressAbortsBatch(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: {Blueprints: []schema.Blueprint{{Name: "Alpha", Functions: []schema.Function{{Name: "ping"}}}}},
	}}

	_, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}, {Address: addrB}})
	var resolution *gen.ResolutionError
	require.ErrorAs(t, err, &resolution)
	assert.Equal(t, addrB.String(), resolution.Address)
	assert.Equal(t, gen.ExitResolution, gen.ExitCode(err))
}

func TestInvalidAddressRejected(t *testing.T) {
	ledger := &fakeLedger{}
	_, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: "component_sim1notapackage"}})
	require.Error(t, err)
	assert.Zero(t, ledger.resets, "target validation happens before the ledger is touched")
}

func TestDuplicateTargetRejected(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{addrA: {}}}
	_, _, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}, {Address: addrA}})
	require.ErrorContains(t, err, "duplicate target address")
}

func TestReceiverKindsShapeCallables(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: richPackage(),
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	assert.Contains(t, text, "type Account struct")
	assert.Contains(t, text, "func BindAccount(invoker simclient.Invoker, address types.ComponentAddress) Account")
	// ref reads through a value receiver, mut_ref through a pointer receiver.
	assert.Contains(t, text, "func (c Account) Balance(")
	assert.Contains(t, text, "func (c *Account) Deposit(")
	assert.Contains(t, text, "func (c Account) Burn(")
}

func TestOutputIsValidGoSource(t *testing.T) {
	ledger := &fakeLedger{packages: map[types.PackageAddress]*schema.Package{
		addrA: richPackage(),
	}}

	text, skipped, err := newGenerator(ledger).Build(context.Background(), []gen.Target{{Address: addrA}})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	_, err = format.Source([]byte(text))
	require.NoError(t, err, "emitted text must be syntactically valid input to the formatter:\n%s", text)
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: gen.ExitOK},
		{name: "resolution", err: &gen.ResolutionError{Address: "package_x", Err: fmt.Errorf("gone")}, want: gen.ExitResolution},
		{name: "unsupported", err: &gen.UnsupportedTypeError{Type: "weird"}, want: gen.ExitUnsupportedType},
		{name: "conflict", err: &gen.DuplicateDefinitionConflict{}, want: gen.ExitConflict},
		{name: "wrapped", err: fmt.Errorf("outer: %w", &gen.ResolutionError{Address: "package_x", Err: fmt.Errorf("gone")}), want: gen.ExitResolution},
		{name: "other", err: fmt.Errorf("boom"), want: gen.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gen.ExitCode(tt.err))
		})
	}
}

// richPackage exercises structs, enums with payloads, every receiver kind and
// the composite type shapes in one blueprint.
func richPackage() *schema.Package {
	balance := schema.TypeDef{
		Package: "account", Name: "Balance", Kind: schema.DefStruct,
		Fields: []schema.Field{
			{Name: "amount", Type: prim(schema.KindDecimal)},
			{Name: "resource", Type: prim(schema.KindResourceAddress)},
		},
	}
	event := schema.TypeDef{
		Package: "account", Name: "Event", Kind: schema.DefEnum,
		Variants: []schema.Variant{
			{Name: "Created"},
			{Name: "Deposited", Fields: []schema.Field{
				{Name: "amount", Type: prim(schema.KindDecimal)},
				{Name: "tags", Type: schema.TypeRef{Kind: schema.KindArray, Element: refTo(prim(schema.KindString))}},
			}},
		},
	}
	return &schema.Package{Blueprints: []schema.Blueprint{{
		Name: "Account",
		Functions: []schema.Function{
			{
				Name:   "new",
				Params: []schema.Param{{Name: "owner", Type: prim(schema.KindComponentAddress)}},
				Output: refTo(prim(schema.KindComponentAddress)),
			},
		},
		Methods: []schema.Method{
			{
				Name:     "balance",
				Receiver: schema.ReceiverRef,
				Params:   []schema.Param{{Name: "resource", Type: prim(schema.KindResourceAddress)}},
				Output:   refTo(named("account", "Balance")),
			},
			{
				Name:     "deposit",
				Receiver: schema.ReceiverMutRef,
				Params:   []schema.Param{{Name: "bucket", Type: prim(schema.KindBucket)}},
			},
			{
				Name:     "burn",
				Receiver: schema.ReceiverOwned,
				Output:   refTo(named("account", "Event")),
			},
		},
		Types: []schema.TypeDef{balance, event},
	}}}
}
