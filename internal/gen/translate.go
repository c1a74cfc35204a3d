package gen

import (
	"fmt"
	"strings"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
)

// primitiveGoTypes is the fixed, exhaustive mapping from schema primitives to
// host types. An unmapped kind is a fatal UnsupportedTypeError.
var primitiveGoTypes = map[schema.Kind]string{
	schema.KindUnit:             "struct{}",
	schema.KindBool:             "bool",
	schema.KindI8:               "int8",
	schema.KindI16:              "int16",
	schema.KindI32:              "int32",
	schema.KindI64:              "int64",
	schema.KindI128:             "types.I128",
	schema.KindU8:               "uint8",
	schema.KindU16:              "uint16",
	schema.KindU32:              "uint32",
	schema.KindU64:              "uint64",
	schema.KindU128:             "types.U128",
	schema.KindString:           "string",
	schema.KindBytes:            "[]byte",
	schema.KindDecimal:          "types.Decimal",
	schema.KindPreciseDecimal:   "types.PreciseDecimal",
	schema.KindPackageAddress:   "types.PackageAddress",
	schema.KindComponentAddress: "types.ComponentAddress",
	schema.KindResourceAddress:  "types.ResourceAddress",
	schema.KindHash:             "types.Hash",
	schema.KindNonFungibleID:    "types.NonFungibleID",
	schema.KindBucket:           "types.Bucket",
	schema.KindProof:            "types.Proof",
	schema.KindVault:            "types.Vault",
}

// comparableKeyKinds are the schema kinds allowed as map keys in the host
// language.
var comparableKeyKinds = map[schema.Kind]bool{
	schema.KindBool:             true,
	schema.KindI8:               true,
	schema.KindI16:              true,
	schema.KindI32:              true,
	schema.KindI64:              true,
	schema.KindU8:               true,
	schema.KindU16:              true,
	schema.KindU32:              true,
	schema.KindU64:              true,
	schema.KindString:           true,
	schema.KindPackageAddress:   true,
	schema.KindComponentAddress: true,
	schema.KindResourceAddress:  true,
	schema.KindHash:             true,
	schema.KindNonFungibleID:    true,
	schema.KindBucket:           true,
	schema.KindProof:            true,
	schema.KindVault:            true,
}

// translator translates the types referenced by one blueprint into Go
// declarations staged on the shared symbol table. Idempotent per key: a type
// already in the table (or stage) is reused, never re-emitted.
type translator struct {
	stage      *stage
	blueprint  string
	defs       map[schema.TypeName]schema.TypeDef
	inProgress map[schema.TypeName]bool
	pending    map[schema.TypeName]string
}

func newTranslator(st *stage, blueprint string, defs []schema.TypeDef) (*translator, error) {
	byKey := make(map[schema.TypeName]schema.TypeDef, len(defs))
	for _, d := range defs {
		key := d.TypeName()
		if existing, ok := byKey[key]; ok && !schema.StructurallyEqual(existing, d) {
			// Keeping either one would miscompile call payloads.
			return nil, &DuplicateDefinitionConflict{Key: key}
		}
		byKey[key] = d
	}
	return &translator{
		stage:      st,
		blueprint:  blueprint,
		defs:       byKey,
		inProgress: make(map[schema.TypeName]bool),
		pending:    make(map[schema.TypeName]string),
	}, nil
}

// goType returns the Go type expression for a schema type reference,
// translating named definitions on first use (dependency-first). indirect
// reports whether the reference is reached through a pointer, slice or map,
// which is what permits recursive types.
func (tr *translator) goType(ref schema.TypeRef, indirect bool) (string, error) {
	if primitive, ok := primitiveGoTypes[ref.Kind]; ok {
		return primitive, nil
	}
	switch ref.Kind {
	case schema.KindOption:
		inner, err := tr.goType(*ref.Element, true)
		if err != nil {
			return "", err
		}
		return "*" + inner, nil
	case schema.KindArray:
		inner, err := tr.goType(*ref.Element, true)
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil
	case schema.KindMap:
		if !comparableKeyKinds[ref.Key.Kind] {
			return "", &UnsupportedTypeError{
				Blueprint: tr.blueprint,
				Type:      string(ref.Key.Kind),
				Reason:    "map key is not comparable in the host language",
			}
		}
		key, err := tr.goType(*ref.Key, true)
		if err != nil {
			return "", err
		}
		value, err := tr.goType(*ref.Value, true)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("map[%s]%s", key, value), nil
	case schema.KindTuple:
		if len(ref.Elements) == 0 {
			return "struct{}", nil
		}
		parts := make([]string, len(ref.Elements))
		for i, el := range ref.Elements {
			t, err := tr.goType(el, indirect)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("E%d %s `cbor:\"%d\" json:\"%d\"`", i, t, i, i)
		}
		return "struct {\n\t" + strings.Join(parts, "\n\t") + "\n}", nil
	case schema.KindNamed:
		return tr.named(*ref.Ref, indirect)
	default:
		return "", &UnsupportedTypeError{
			Blueprint: tr.blueprint,
			Type:      string(ref.Kind),
			Reason:    "no host mapping for this kind",
		}
	}
}

// named resolves a reference to a named definition, translating it if this is
// its first use anywhere in the run.
func (tr *translator) named(key schema.TypeName, indirect bool) (string, error) {
	if tr.inProgress[key] {
		if !indirect {
			return "", &UnsupportedTypeError{
				Blueprint: tr.blueprint,
				Type:      key.String(),
				Reason:    "directly contains itself without indirection",
			}
		}
		return tr.pending[key], nil
	}

	def, carried := tr.defs[key]

	if existing, ok := tr.stage.lookup(key); ok {
		if carried && !schema.StructurallyEqual(existing.def, def) {
			return "", &DuplicateDefinitionConflict{Key: key}
		}
		return existing.hostName, nil
	}

	if !carried {
		// Schema validation guarantees carried definitions; a miss here means
		// the payload lied about transitivity.
		return "", &UnsupportedTypeError{
			Blueprint: tr.blueprint,
			Type:      key.String(),
			Reason:    "referenced definition not carried by the blueprint schema",
		}
	}

	hostName := tr.stage.reserveHostName(exportedName(key.Name))
	tr.inProgress[key] = true
	tr.pending[key] = hostName
	defer func() {
		delete(tr.inProgress, key)
		delete(tr.pending, key)
	}()

	var source string
	var err error
	switch def.Kind {
	case schema.DefStruct:
		source, err = tr.structSource(hostName, def)
	case schema.DefEnum:
		source, err = tr.enumSource(hostName, key, def)
	default:
		err = &UnsupportedTypeError{
			Blueprint: tr.blueprint,
			Type:      key.String(),
			Reason:    fmt.Sprintf("unknown definition kind %q", def.Kind),
		}
	}
	if err != nil {
		return "", err
	}

	tr.stage.insert(&declaration{key: key, def: def, hostName: hostName, source: source})
	return hostName, nil
}

func (tr *translator) structSource(hostName string, def schema.TypeDef) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s is generated from the ledger type %s.\n", hostName, def.TypeName())
	fmt.Fprintf(&b, "type %s struct {\n", hostName)
	for _, f := range def.Fields {
		fieldType, err := tr.goType(f.Type, false)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\t%s %s `cbor:\"%s\" json:\"%s\"`\n",
			exportedName(f.Name), fieldType, f.Name, f.Name)
	}
	b.WriteString("}")
	return b.String(), nil
}

// enumSource renders a tagged union as a variant tag plus one optional
// payload pointer per variant carrying fields. Payload structs are staged
// before the union itself so declarations stay dependency-first.
func (tr *translator) enumSource(hostName string, key schema.TypeName, def schema.TypeDef) (string, error) {
	type payload struct {
		variant  schema.Variant
		hostName string
	}
	var payloads []payload
	for _, v := range def.Variants {
		if len(v.Fields) == 0 {
			continue
		}
		payloadName := tr.stage.reserveHostName(hostName + exportedName(v.Name))
		var b strings.Builder
		fmt.Fprintf(&b, "// %s is the payload of the %s variant of %s.\n", payloadName, v.Name, key)
		fmt.Fprintf(&b, "type %s struct {\n", payloadName)
		for _, f := range v.Fields {
			fieldType, err := tr.goType(f.Type, false)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\t%s %s `cbor:\"%s\" json:\"%s\"`\n",
				exportedName(f.Name), fieldType, f.Name, f.Name)
		}
		b.WriteString("}")
		tr.stage.insert(&declaration{
			key:      schema.TypeName{Package: key.Package, Name: key.Name + "::" + v.Name},
			def:      def,
			hostName: payloadName,
			source:   b.String(),
		})
		payloads = append(payloads, payload{variant: v, hostName: payloadName})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s is generated from the ledger enum %s. Variant names the\n", hostName, key)
	b.WriteString("// active arm; at most one payload field is set, matching the variant.\n")
	fmt.Fprintf(&b, "type %s struct {\n", hostName)
	b.WriteString("\tVariant string `cbor:\"variant\" json:\"variant\"`\n")
	for _, p := range payloads {
		fmt.Fprintf(&b, "\t%s *%s `cbor:\"%s,omitempty\" json:\"%s,omitempty\"`\n",
			exportedName(p.variant.Name), p.hostName, p.variant.Name, p.variant.Name)
	}
	b.WriteString("}")
	return b.String(), nil
}

// outputType translates a callable's return type. A nil or unit output means
// the callable returns no value.
func (tr *translator) outputType(ref *schema.TypeRef) (string, error) {
	if ref == nil || ref.Kind == schema.KindUnit {
		return "", nil
	}
	return tr.goType(*ref, false)
}
