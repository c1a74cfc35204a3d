package gen

import (
	"go/token"
	"strings"
	"unicode"
)

// exportedName converts a schema identifier to an exported Go name. Names
// that already carry casing (Rust-style PascalCase type names) keep it; only
// separator-delimited names are re-cased word by word.
func exportedName(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "_- \t") {
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return toPascalCase(s)
}

func toPascalCase(s string) string {
	if s == "" {
		return ""
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, word := range words {
		if len(word) > 0 {
			result.WriteString(strings.ToUpper(string(word[0])))
			if len(word) > 1 {
				result.WriteString(strings.ToLower(word[1:]))
			}
		}
	}

	return result.String()
}

// paramName converts a schema parameter name to an unexported Go identifier,
// steering clear of keywords and predeclared names the body relies on. Names
// that already carry casing keep their word boundaries; only the first rune
// is lowered.
func paramName(s string) string {
	name := s
	if strings.ContainsAny(s, "_- \t") {
		name = toPascalCase(s)
	}
	if name == "" {
		return "arg"
	}
	name = strings.ToLower(name[:1]) + name[1:]
	if token.IsKeyword(name) || reservedParamNames[name] {
		return name + "Arg"
	}
	return name
}

// reservedParamNames are identifiers the generated bodies use themselves.
var reservedParamNames = map[string]bool{
	"out": true,
	"err": true,
	"nil": true,
}
