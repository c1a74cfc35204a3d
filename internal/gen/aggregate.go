package gen

import (
	"fmt"
	"strings"
)

// modulePath is the import root of the namespaces generated stubs depend on.
const modulePath = "github.com/duje-begonja-rdx/radixdlt-scrypto"

// preamble renders the fixed file header: the machine-generated marker with
// regeneration instructions, the package clause, and the fixed import set the
// stubs depend on. Unused imports are pruned by the cleanup pass.
func preamble(pkgName string) string {
	var b strings.Builder
	b.WriteString("// Code generated by bindgen. DO NOT EDIT.\n")
	b.WriteString("//\n")
	b.WriteString("// Strongly-typed stubs for the native packages of the ledger simulator.\n")
	b.WriteString("// Regenerate against a freshly reset simulator with:\n")
	b.WriteString("//\n")
	b.WriteString("//\tbindgen generate\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	b.WriteString("import (\n")
	fmt.Fprintf(&b, "\t%q\n", modulePath+"/simclient")
	fmt.Fprintf(&b, "\t%q\n", modulePath+"/types")
	b.WriteString(")")
	return b.String()
}

// aggregate concatenates the fixed preamble with the blueprint fragments in
// the operator-supplied address order, blank-line separated. Pure string
// assembly: deduplication already happened in the shared symbol table, so
// fragments never redeclare a shared type.
func aggregate(preamble string, fragments []string) string {
	parts := make([]string, 0, len(fragments)+1)
	parts = append(parts, strings.TrimRight(preamble, "\n"))
	for _, f := range fragments {
		parts = append(parts, strings.TrimRight(f, "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n"
}
