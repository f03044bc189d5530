package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire/set"
	"github.com/a-peyrard/autowire/slices"
)

const autowireAlias = "autowire"

var registryTemplate = template.Must(template.New("registry").Parse(`// Code generated by autowire generator. DO NOT EDIT.

package {{ .PackageName }}

import (
{{- range .Imports }}
	{{ with .Alias }}{{ . }} {{ end }}"{{ .Path }}"
{{- end }}
)

// RegisterAll registers the autowired types of the module.
func ({{ .StructName }}) RegisterAll(r *autowire.Resolver) error {
{{- range .Registrations }}
{{- range .Comments }}
	// {{ . }}
{{- end }}
	if err := r.Register(
		{{ .Registrable }},
{{- range .Options }}
		{{ . }},
{{- end }}
	); err != nil {
		return err
	}
{{ end }}
	return nil
}
`))

type (
	importLine struct {
		Alias string
		Path  string
	}

	registration struct {
		Comments    []string
		Registrable string
		Options     []string
	}

	registryData struct {
		PackageName   string
		StructName    string
		Imports       []importLine
		Registrations []registration
	}
)

func generateCode(logger *zerolog.Logger, outputPath string, registry *RegistryDefinition, types []TypeDefinition) error {
	code, err := renderRegistry(logger, registry, types)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, code, 0644)
}

// renderRegistry writes the RegisterAll method of the registry, registering every given type.
func renderRegistry(logger *zerolog.Logger, registry *RegistryDefinition, types []TypeDefinition) ([]byte, error) {
	types = append([]TypeDefinition(nil), types...)
	sort.SliceStable(types, func(i, j int) bool {
		if types[i].key() != types[j].key() {
			return types[i].key() < types[j].key()
		}
		return types[i].FnName < types[j].FnName
	})

	importWithAlias := map[string]string{autowireImportPath: autowireAlias}
	aliases := set.NewWithValues(autowireAlias)
	data := registryData{
		PackageName: registry.PackageName,
		StructName:  registry.StructName,
		Imports:     []importLine{{Path: autowireImportPath}},
	}

	for _, t := range types {
		importPath := t.ImportPath
		if importPath == registry.ImportPath {
			importPath = ""
		}
		if importPath != "" && !isExported(t) {
			logger.Warn().Msgf("%s is not exported from %s, it cannot be registered from %s", t.TypeName, t.ImportPath, registry.ImportPath)
			continue
		}
		if _, found := importWithAlias[importPath]; importPath != "" && !found {
			alias := findSuitableAlias(importPath, aliases)
			aliases.Add(alias)
			importWithAlias[importPath] = alias
			data.Imports = append(data.Imports, importLine{Alias: alias, Path: importPath})
		}
		data.Registrations = append(data.Registrations, newRegistration(t, importPath, importWithAlias))
	}

	sort.Slice(data.Imports, func(i, j int) bool {
		return data.Imports[i].Path < data.Imports[j].Path
	})

	var buf bytes.Buffer
	if err := registryTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render registry: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w\n%s", err, buf.String())
	}
	return formatted, nil
}

func isExported(t TypeDefinition) bool {
	if t.FnName != "" {
		return token.IsExported(t.FnName)
	}
	return token.IsExported(t.TypeName)
}

func newRegistration(t TypeDefinition, importPath string, importWithAlias map[string]string) registration {
	reg := registration{
		Comments: []string{t.TypeName},
	}
	if t.Description != "" {
		reg.Comments = strings.Split(t.Description, "\n")
	}

	if t.FnName != "" {
		reg.Registrable = generateFQN(importPath, t.FnName, importWithAlias)
	} else {
		reg.Registrable = "&" + generateFQN(importPath, t.TypeName, importWithAlias) + "{}"
	}

	if t.Named != "" {
		reg.Options = append(reg.Options, fmt.Sprintf("autowire.Named(%s)", strconv.Quote(t.Named)))
	}
	if len(t.Params) > 0 {
		reg.Options = append(reg.Options, fmt.Sprintf("autowire.Params(%s)", paramsLiteral(t.Params)))
	}
	for _, m := range t.Methods {
		args := []string{strconv.Quote(m.Name)}
		if len(m.Params) > 0 {
			args = append(args, paramsLiteral(m.Params))
		}
		reg.Options = append(reg.Options, fmt.Sprintf("autowire.Method(%s)", strings.Join(args, ", ")))
	}
	return reg
}

func paramsLiteral(params []ParamDefinition) string {
	return strings.Join(slices.Map(params, paramLiteral), ", ")
}

func paramLiteral(p ParamDefinition) string {
	if !p.HasDefault {
		return fmt.Sprintf("autowire.Param(%s)", strconv.Quote(p.Name))
	}
	return fmt.Sprintf("autowire.ParamWithDefault(%s, %s)", strconv.Quote(p.Name), defaultLiteral(p))
}

// defaultLiteral writes basic defaults as Go literals, anything else is written as a string
// converted by the resolver when registering. A bare literal must compile once stored in an any.
func defaultLiteral(p ParamDefinition) string {
	var valid bool
	switch p.TypeName {
	case "bool":
		b, err := strconv.ParseBool(p.Default)
		valid = err == nil && strconv.FormatBool(b) == p.Default
	case "int", "int8", "int16", "int32", "int64":
		_, err := strconv.ParseInt(p.Default, 0, 64)
		valid = err == nil
	case "uint", "uint8", "uint16", "uint32", "uint64":
		u, err := strconv.ParseUint(p.Default, 0, 64)
		valid = err == nil && u <= math.MaxInt64
	case "float32", "float64":
		f, err := strconv.ParseFloat(p.Default, 64)
		valid = err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	}
	if valid {
		return p.Default
	}
	return strconv.Quote(p.Default)
}

// findSuitableAlias derives an import alias from the last element of the path, prefixing it with
// the initials of the previous elements, then with a counter, until it does not collide.
func findSuitableAlias(importPath string, aliases set.Set[string]) string {
	tokens := strings.Split(importPath, "/")
	alias := sanitizeIdentifier(tokens[len(tokens)-1])
	for i := len(tokens) - 2; i >= 0 && (alias == "" || aliases.Contains(alias)); i-- {
		if prefix := sanitizeIdentifier(tokens[i]); prefix != "" {
			alias = prefix[:1] + alias
		}
	}
	if alias == "" {
		alias = "pkg"
	}
	if !aliases.Contains(alias) {
		return alias
	}
	for counter := 0; ; counter++ {
		if candidate := alias + strconv.Itoa(counter); !aliases.Contains(candidate) {
			return candidate
		}
	}
}

func sanitizeIdentifier(in string) string {
	var sb strings.Builder
	for _, r := range in {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9' && sb.Len() > 0) {
			sb.WriteRune(r)
		}
	}
	return strings.ToLower(sb.String())
}

// generateFQN qualifies typeName, possibly a pointer type, with the alias of its import.
func generateFQN(importPath string, typeName string, importWithAlias map[string]string) string {
	if importPath == "" {
		return typeName
	}
	stars := typeName[:len(typeName)-len(strings.TrimLeft(typeName, "*"))]
	return stars + importWithAlias[importPath] + "." + strings.TrimPrefix(typeName, stars)
}
