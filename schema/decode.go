package schema

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so encoded payloads are deterministic.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("schema: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal encodes v as canonical CBOR.
func Marshal(v any) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

// Unmarshal decodes a CBOR payload into v.
func Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// StructurallyEqual reports whether two definitions describe the same
// structure. Compared via canonical CBOR so nil and empty slices collapse.
func StructurallyEqual(a, b TypeDef) bool {
	ab, errA := Marshal(a)
	bb, errB := Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ab, bb)
}

// EncodePackage serializes a package schema to its canonical CBOR payload.
// Used by the simulator side and by tests building fixture payloads.
func EncodePackage(p *Package) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// DecodePackage deserializes and validates a package schema payload.
func DecodePackage(payload []byte) (*Package, error) {
	var p Package
	if err := cbor.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("schema: unmarshal package: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return &p, nil
}

// Validate checks the structural invariants of a decoded payload: blueprint
// and callable names are unique, kinds are well-formed, and every named type
// reference resolves to exactly one definition carried by its blueprint.
func (p *Package) Validate() error {
	seen := make(map[string]bool, len(p.Blueprints))
	for i := range p.Blueprints {
		bp := &p.Blueprints[i]
		if bp.Name == "" {
			return fmt.Errorf("blueprint %d: empty name", i)
		}
		if seen[bp.Name] {
			return fmt.Errorf("blueprint %q: duplicate blueprint name", bp.Name)
		}
		seen[bp.Name] = true
		if err := bp.validate(); err != nil {
			return fmt.Errorf("blueprint %q: %w", bp.Name, err)
		}
	}
	return nil
}

func (bp *Blueprint) validate() error {
	defs := make(map[TypeName]bool, len(bp.Types))
	byKey := make(map[TypeName]TypeDef, len(bp.Types))
	for _, def := range bp.Types {
		key := def.TypeName()
		if def.Package == "" || def.Name == "" {
			return fmt.Errorf("type %q: incomplete identity", key)
		}
		if existing, ok := byKey[key]; ok && !StructurallyEqual(existing, def) {
			return fmt.Errorf("type %q: conflicting duplicate definitions", key)
		}
		byKey[key] = def
		switch def.Kind {
		case DefStruct:
			if len(def.Variants) != 0 {
				return fmt.Errorf("type %q: struct with variants", key)
			}
		case DefEnum:
			if len(def.Fields) != 0 {
				return fmt.Errorf("type %q: enum with top-level fields", key)
			}
		default:
			return fmt.Errorf("type %q: unknown definition kind %q", key, def.Kind)
		}
		defs[key] = true
	}

	check := func(ref TypeRef, where string) error {
		return validateRef(ref, defs, where)
	}

	names := make(map[string]bool, len(bp.Functions)+len(bp.Methods))
	for _, fn := range bp.Functions {
		if fn.Name == "" || names[fn.Name] {
			return fmt.Errorf("function %q: empty or duplicate name", fn.Name)
		}
		names[fn.Name] = true
		for _, param := range fn.Params {
			if err := check(param.Type, fmt.Sprintf("function %q param %q", fn.Name, param.Name)); err != nil {
				return err
			}
		}
		if fn.Output != nil {
			if err := check(*fn.Output, fmt.Sprintf("function %q output", fn.Name)); err != nil {
				return err
			}
		}
	}
	for _, m := range bp.Methods {
		if m.Name == "" || names[m.Name] {
			return fmt.Errorf("method %q: empty or duplicate name", m.Name)
		}
		names[m.Name] = true
		switch m.Receiver {
		case ReceiverRef, ReceiverMutRef, ReceiverOwned:
		default:
			return fmt.Errorf("method %q: unknown receiver kind %q", m.Name, m.Receiver)
		}
		for _, param := range m.Params {
			if err := check(param.Type, fmt.Sprintf("method %q param %q", m.Name, param.Name)); err != nil {
				return err
			}
		}
		if m.Output != nil {
			if err := check(*m.Output, fmt.Sprintf("method %q output", m.Name)); err != nil {
				return err
			}
		}
	}

	// Payload types inside the carried definitions must resolve too.
	for _, def := range bp.Types {
		for _, f := range def.Fields {
			if err := check(f.Type, fmt.Sprintf("type %q field %q", def.TypeName(), f.Name)); err != nil {
				return err
			}
		}
		for _, v := range def.Variants {
			for _, f := range v.Fields {
				if err := check(f.Type, fmt.Sprintf("type %q variant %q field %q", def.TypeName(), v.Name, f.Name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateRef(ref TypeRef, defs map[TypeName]bool, where string) error {
	switch ref.Kind {
	case KindUnit, KindBool,
		KindI8, KindI16, KindI32, KindI64, KindI128,
		KindU8, KindU16, KindU32, KindU64, KindU128,
		KindString, KindBytes, KindDecimal, KindPreciseDecimal,
		KindPackageAddress, KindComponentAddress, KindResourceAddress,
		KindHash, KindNonFungibleID, KindBucket, KindProof, KindVault:
		return nil
	case KindOption, KindArray:
		if ref.Element == nil {
			return fmt.Errorf("%s: %s without element type", where, ref.Kind)
		}
		return validateRef(*ref.Element, defs, where)
	case KindMap:
		if ref.Key == nil || ref.Value == nil {
			return fmt.Errorf("%s: map without key or value type", where)
		}
		if err := validateRef(*ref.Key, defs, where); err != nil {
			return err
		}
		return validateRef(*ref.Value, defs, where)
	case KindTuple:
		for _, el := range ref.Elements {
			if err := validateRef(el, defs, where); err != nil {
				return err
			}
		}
		return nil
	case KindNamed:
		if ref.Ref == nil {
			return fmt.Errorf("%s: named reference without identity", where)
		}
		if !defs[*ref.Ref] {
			return fmt.Errorf("%s: reference to undeclared type %q", where, ref.Ref)
		}
		return nil
	default:
		return fmt.Errorf("%s: unknown type kind %q", where, ref.Kind)
	}
}
