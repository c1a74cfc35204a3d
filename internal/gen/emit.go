package gen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

// blueprintTemplate renders one blueprint's handle types and callables. Type
// declarations staged by the translator are prepended by emitBlueprint.
const blueprintTemplate = `// ===== {{.Name}} ({{.Address}}) =====

// {{.HandleType}} is a handle to the {{.Name}} blueprint of the package
// deployed at {{.Address}}.
type {{.HandleType}} struct {
	invoker simclient.Invoker

	// Package is the address the handle dispatches against.
	Package types.PackageAddress
}

// New{{.HandleType}} binds the {{.Name}} blueprint at its deployed package address.
func New{{.HandleType}}(invoker simclient.Invoker) {{.HandleType}} {
	return {{.HandleType}}{invoker: invoker, Package: {{printf "%q" .Address}}}
}
{{range .Functions}}
// {{.GoName}} calls the {{printf "%q" .SchemaName}} function of the {{$.Name}} blueprint.
{{- if .Return}}
func (b {{$.HandleType}}) {{.GoName}}({{paramList .Params}}) ({{.Return}}, error) {
	var out {{.Return}}
	if err := b.invoker.CallFunction(b.Package, {{printf "%q" $.Name}}, {{printf "%q" .SchemaName}}, &out{{argList .Params}}); err != nil {
		return out, err
	}
	return out, nil
}
{{- else}}
func (b {{$.HandleType}}) {{.GoName}}({{paramList .Params}}) error {
	return b.invoker.CallFunction(b.Package, {{printf "%q" $.Name}}, {{printf "%q" .SchemaName}}, nil{{argList .Params}})
}
{{- end}}
{{end}}
{{- if .HasMethods}}
// {{.ComponentType}} is a handle to a component instance of the {{.Name}} blueprint.
type {{.ComponentType}} struct {
	invoker simclient.Invoker

	// Address is the component the handle dispatches against.
	Address types.ComponentAddress
}

// Bind{{.ComponentType}} attaches a handle to an existing {{.Name}} component.
func Bind{{.ComponentType}}(invoker simclient.Invoker, address types.ComponentAddress) {{.ComponentType}} {
	return {{.ComponentType}}{invoker: invoker, Address: address}
}
{{range .Methods}}
// {{.GoName}} calls the {{printf "%q" .SchemaName}} method on the component{{.DocNote}}.
{{- if .Return}}
func (c {{if .Pointer}}*{{end}}{{$.ComponentType}}) {{.GoName}}({{paramList .Params}}) ({{.Return}}, error) {
	var out {{.Return}}
	if err := c.invoker.CallMethod(c.Address, {{printf "%q" .SchemaName}}, &out{{argList .Params}}); err != nil {
		return out, err
	}
	return out, nil
}
{{- else}}
func (c {{if .Pointer}}*{{end}}{{$.ComponentType}}) {{.GoName}}({{paramList .Params}}) error {
	return c.invoker.CallMethod(c.Address, {{printf "%q" .SchemaName}}, nil{{argList .Params}})
}
{{- end}}
{{end}}
{{- end}}`

type paramModel struct {
	Name string
	Type string
}

type callableModel struct {
	GoName     string
	SchemaName string
	Params     []paramModel
	Return     string
	Pointer    bool
	DocNote    string
}

type blueprintModel struct {
	Address       string
	Name          string
	HandleType    string
	ComponentType string
	Functions     []callableModel
	Methods       []callableModel
	HasMethods    bool
}

type emitter struct{ tmpl *template.Template }

func newEmitter() *emitter {
	funcMap := template.FuncMap{
		"paramList": func(params []paramModel) string {
			parts := make([]string, len(params))
			for i, p := range params {
				parts[i] = p.Name + " " + p.Type
			}
			return strings.Join(parts, ", ")
		},
		"argList": func(params []paramModel) string {
			var b strings.Builder
			for _, p := range params {
				b.WriteString(", ")
				b.WriteString(p.Name)
			}
			return b.String()
		},
	}
	return &emitter{
		tmpl: template.Must(template.New("blueprint").Funcs(funcMap).Parse(blueprintTemplate)),
	}
}

func (e *emitter) render(m *blueprintModel) (string, error) {
	var b strings.Builder
	if err := e.tmpl.Execute(&b, m); err != nil {
		return "", fmt.Errorf("render blueprint %s: %w", m.Name, err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// emitBlueprint translates one blueprint's types against the shared table and
// renders its stub fragment. All-or-nothing: any translation failure discards
// the staged declarations and nothing of the blueprint is emitted.
func emitBlueprint(table *SymbolTable, e *emitter, address types.PackageAddress, bp *schema.Blueprint) (string, error) {
	st := table.begin()
	tr, err := newTranslator(st, bp.Name, bp.Types)
	if err != nil {
		return "", err
	}

	model := &blueprintModel{
		Address: address.String(),
		Name:    bp.Name,
	}

	for _, fn := range bp.Functions {
		c, err := buildCallable(tr, fn.Name, fn.Params, fn.Output)
		if err != nil {
			return "", err
		}
		model.Functions = append(model.Functions, c)
	}
	for _, m := range bp.Methods {
		c, err := buildCallable(tr, m.Name, m.Params, m.Output)
		if err != nil {
			return "", err
		}
		switch m.Receiver {
		case schema.ReceiverMutRef:
			c.Pointer = true
		case schema.ReceiverOwned:
			c.DocNote = ", consuming it"
		}
		model.Methods = append(model.Methods, c)
	}

	// Handles are named after the types have claimed their identifiers, so a
	// carried type sharing the blueprint's name keeps the unsuffixed form.
	model.HandleType = st.reserveHostName(exportedName(bp.Name) + "Blueprint")
	if len(bp.Methods) > 0 {
		model.ComponentType = st.reserveHostName(exportedName(bp.Name))
		model.HasMethods = true
	}

	body, err := e.render(model)
	if err != nil {
		return "", err
	}

	decls := st.commit()
	return strings.Join(append(decls, body), "\n\n"), nil
}

func buildCallable(tr *translator, name string, params []schema.Param, output *schema.TypeRef) (callableModel, error) {
	c := callableModel{
		GoName:     exportedName(name),
		SchemaName: name,
	}
	for i, p := range params {
		pt, err := tr.goType(p.Type, false)
		if err != nil {
			return c, err
		}
		pn := paramName(p.Name)
		if pn == "arg" {
			pn = fmt.Sprintf("arg%d", i)
		}
		c.Params = append(c.Params, paramModel{Name: pn, Type: pt})
	}
	ret, err := tr.outputType(output)
	if err != nil {
		return c, err
	}
	c.Return = ret
	return c, nil
}
