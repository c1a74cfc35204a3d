// Package schema models the binary blueprint schema served by the ledger
// simulator: blueprint definitions, function and method signatures, and the
// structural type definitions their signatures reference.
package schema

// Kind discriminates the closed set of type shapes a schema can describe.
type Kind string

const (
	// Primitives.
	KindUnit           Kind = "unit"
	KindBool           Kind = "bool"
	KindI8             Kind = "i8"
	KindI16            Kind = "i16"
	KindI32            Kind = "i32"
	KindI64            Kind = "i64"
	KindI128           Kind = "i128"
	KindU8             Kind = "u8"
	KindU16            Kind = "u16"
	KindU32            Kind = "u32"
	KindU64            Kind = "u64"
	KindU128           Kind = "u128"
	KindString         Kind = "string"
	KindBytes          Kind = "bytes"
	KindDecimal        Kind = "decimal"
	KindPreciseDecimal Kind = "precise_decimal"

	// Address and node primitives.
	KindPackageAddress   Kind = "package_address"
	KindComponentAddress Kind = "component_address"
	KindResourceAddress  Kind = "resource_address"
	KindHash             Kind = "hash"
	KindNonFungibleID    Kind = "non_fungible_id"
	KindBucket           Kind = "bucket"
	KindProof            Kind = "proof"
	KindVault            Kind = "vault"

	// Composites.
	KindOption Kind = "option"
	KindArray  Kind = "array"
	KindMap    Kind = "map"
	KindTuple  Kind = "tuple"

	// Reference to a named definition (struct or enum).
	KindNamed Kind = "named"
)

// Receiver tags how a method binds to its component instance.
type Receiver string

const (
	// ReceiverRef reads component state.
	ReceiverRef Receiver = "ref"
	// ReceiverMutRef mutates component state.
	ReceiverMutRef Receiver = "mut_ref"
	// ReceiverOwned consumes the component.
	ReceiverOwned Receiver = "owned"
)

// TypeName identifies a named definition by its originating package and
// declared name. Two packages may declare distinct types under equal names.
type TypeName struct {
	Package string `cbor:"package" json:"package"`
	Name    string `cbor:"name" json:"name"`
}

func (n TypeName) String() string { return n.Package + "::" + n.Name }

// TypeRef is a use of a type inside a signature or another type. Exactly the
// payload fields implied by Kind are set.
type TypeRef struct {
	Kind Kind `cbor:"kind" json:"kind"`

	// Element is set for option and array.
	Element *TypeRef `cbor:"element,omitempty" json:"element,omitempty"`
	// Key and Value are set for map.
	Key   *TypeRef `cbor:"key,omitempty" json:"key,omitempty"`
	Value *TypeRef `cbor:"value,omitempty" json:"value,omitempty"`
	// Elements is set for tuple.
	Elements []TypeRef `cbor:"elements,omitempty" json:"elements,omitempty"`
	// Ref is set for named.
	Ref *TypeName `cbor:"ref,omitempty" json:"ref,omitempty"`
}

// DefKind discriminates named definitions.
type DefKind string

const (
	DefStruct DefKind = "struct"
	DefEnum   DefKind = "enum"
)

// Field is a named struct field or enum variant payload field.
type Field struct {
	Name string  `cbor:"name" json:"name"`
	Type TypeRef `cbor:"type" json:"type"`
}

// Variant is one arm of an enum definition.
type Variant struct {
	Name   string  `cbor:"name" json:"name"`
	Fields []Field `cbor:"fields,omitempty" json:"fields,omitempty"`
}

// TypeDef is a named structural type declared by a package. Identity is
// (Package, Name); structural equality across equal identities is required.
type TypeDef struct {
	Package  string    `cbor:"package" json:"package"`
	Name     string    `cbor:"name" json:"name"`
	Kind     DefKind   `cbor:"kind" json:"kind"`
	Fields   []Field   `cbor:"fields,omitempty" json:"fields,omitempty"`
	Variants []Variant `cbor:"variants,omitempty" json:"variants,omitempty"`
}

// TypeName returns the definition's identity key.
func (d TypeDef) TypeName() TypeName { return TypeName{Package: d.Package, Name: d.Name} }

// Param is a named function or method parameter.
type Param struct {
	Name string  `cbor:"name" json:"name"`
	Type TypeRef `cbor:"type" json:"type"`
}

// Function is a free callable exposed by a blueprint (no receiver).
type Function struct {
	Name   string   `cbor:"name" json:"name"`
	Params []Param  `cbor:"params,omitempty" json:"params,omitempty"`
	Output *TypeRef `cbor:"output,omitempty" json:"output,omitempty"`
}

// Method is a callable bound to a component instance of the blueprint.
type Method struct {
	Name     string   `cbor:"name" json:"name"`
	Receiver Receiver `cbor:"receiver" json:"receiver"`
	Params   []Param  `cbor:"params,omitempty" json:"params,omitempty"`
	Output   *TypeRef `cbor:"output,omitempty" json:"output,omitempty"`
}

// Blueprint is one blueprint definition inside a package: its callables plus
// every named type definition referenced transitively by their signatures.
type Blueprint struct {
	Name      string     `cbor:"name" json:"name"`
	Functions []Function `cbor:"functions,omitempty" json:"functions,omitempty"`
	Methods   []Method   `cbor:"methods,omitempty" json:"methods,omitempty"`
	Types     []TypeDef  `cbor:"types,omitempty" json:"types,omitempty"`
}

// Package is the decoded schema payload for one package address.
type Package struct {
	Blueprints []Blueprint `cbor:"blueprints" json:"blueprints"`
}

// NativePackage is a built-in package the binding workflow regenerates.
type NativePackage struct {
	Address string
	Note    string
}

// NativePackages lists the built-in packages, in regeneration order.
var NativePackages = []NativePackage{
	{Address: "package_sim1qy4hyyn2wd5r7kckfuryvyj0m7qvzyjmjxqzx8c6rdsqeqk4g7", Note: "system faucet"},
	{Address: "package_sim1qyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqsnznk7n", Note: "account"},
}
