package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire/slices"
)

const (
	autowireAnnotationTag   = "@autowire"
	entryPointAnnotationTag = "@entrypoint"
	defaultAnnotationTag    = "@default"

	autowireImportPath = "github.com/a-peyrard/autowire"
	emptyRegistryName  = "EmptyRegistry"
)

type (
	ParamDefinition struct {
		Name       string
		TypeName   string
		Default    string
		HasDefault bool
	}

	MethodDefinition struct {
		Name   string
		Params []ParamDefinition
	}

	// TypeDefinition is an autowirable type, registered either with its constructor or,
	// when FnName is empty, with its fields.
	TypeDefinition struct {
		Named       string
		Description string

		FnName     string
		TypeName   string
		ImportPath string

		Params  []ParamDefinition
		Methods []MethodDefinition
	}

	RegistryDefinition struct {
		PackageName string
		StructName  string
		ImportPath  string
	}
)

func (p ParamDefinition) String() string {
	if p.HasDefault {
		return fmt.Sprintf("%s %s = %s", p.Name, p.TypeName, p.Default)
	}
	return fmt.Sprintf("%s %s", p.Name, p.TypeName)
}

func (t TypeDefinition) String() string {
	constructor := t.FnName
	if constructor == "" {
		constructor = "fields"
	}
	methods := slices.Map(t.Methods, func(m MethodDefinition) string {
		return fmt.Sprintf("%s(%s)", m.Name, strings.Join(slices.Map(m.Params, ParamDefinition.String), ", "))
	})
	return fmt.Sprintf(
		`✨ Type: %s
Description: %s
Import Path: %s
Named: %s
Constructor: %s(%s)
Entry points: [%s]`,
		t.TypeName,
		t.Description,
		t.ImportPath,
		t.Named,
		constructor,
		strings.Join(slices.Map(t.Params, ParamDefinition.String), ", "),
		strings.Join(methods, ", "),
	)
}

func (t TypeDefinition) key() string {
	return t.ImportPath + "." + t.TypeName
}

// scanner collects the annotated declarations of the module, and the registry declared in the target file.
type scanner struct {
	logger         *zerolog.Logger
	targetFilePath string

	registry *RegistryDefinition
	types    []TypeDefinition
	// entry points by type key, attached to their type once every file is scanned
	methods map[string][]MethodDefinition
}

func newScanner(logger *zerolog.Logger, targetFilePath string) *scanner {
	return &scanner{
		logger:         logger,
		targetFilePath: targetFilePath,
		methods:        make(map[string][]MethodDefinition),
	}
}

func (s *scanner) scanFile(fset *token.FileSet, file *ast.File, importPath string) {
	filePath := fset.Position(file.Pos()).Filename
	logger := s.logger.With().Str("file", filePath).Logger()

	// only look for the registry in the file triggering the generation
	if filePath == s.targetFilePath {
		s.scanRegistry(&logger, file, importPath)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Doc == nil {
				continue
			}
			if d.Recv == nil && hasAnnotation(d.Doc.Text(), autowireAnnotationTag) {
				s.scanConstructor(&logger, fset, file, d, importPath)
			} else if d.Recv != nil && hasAnnotation(d.Doc.Text(), entryPointAnnotationTag) {
				s.scanEntryPoint(&logger, fset, file, d, importPath)
			}
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				s.scanStructs(&logger, d, importPath)
			}
		}
	}
}

func (s *scanner) scanRegistry(logger *zerolog.Logger, file *ast.File, importPath string) {
	ast.Inspect(file, func(n ast.Node) bool {
		typeSpec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		if embeds(file, structType, autowireImportPath, emptyRegistryName) {
			logger.Debug().Str("struct", typeSpec.Name.Name).Msg("=> Found Registry")
			s.registry = &RegistryDefinition{
				PackageName: file.Name.Name,
				StructName:  typeSpec.Name.Name,
				ImportPath:  importPath,
			}
		}
		return true
	})
}

func (s *scanner) scanConstructor(logger *zerolog.Logger, fset *token.FileSet, file *ast.File, fn *ast.FuncDecl, importPath string) {
	log := logger.With().Str("constructor", fn.Name.Name).Logger()

	typeName, found := producedTypeName(fn)
	if !found {
		log.Warn().Msg("Constructor must return a type of its own package, skipping it")
		return
	}
	log.Debug().Msg("=> Found constructor")

	annotation := parseAutowireAnnotation(&log, fn.Doc.Text(), autowireAnnotationTag)
	named, _ := annotation.Named()

	s.types = append(s.types, TypeDefinition{
		Named:       named,
		Description: annotation.description,
		FnName:      fn.Name.Name,
		TypeName:    typeName,
		ImportPath:  importPath,
		Params:      scanParams(&log, fset, file, fn.Type.Params),
	})
}

func (s *scanner) scanEntryPoint(logger *zerolog.Logger, fset *token.FileSet, file *ast.File, fn *ast.FuncDecl, importPath string) {
	typeName, found := receiverTypeName(fn)
	if !found {
		return
	}
	log := logger.With().Str("type", typeName).Str("entryPoint", fn.Name.Name).Logger()
	log.Debug().Msg("=> Found entry point")

	key := importPath + "." + typeName
	s.methods[key] = append(s.methods[key], MethodDefinition{
		Name:   fn.Name.Name,
		Params: scanParams(&log, fset, file, fn.Type.Params),
	})
}

func (s *scanner) scanStructs(logger *zerolog.Logger, decl *ast.GenDecl, importPath string) {
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if _, ok := typeSpec.Type.(*ast.StructType); !ok {
			continue
		}
		// a single type spec carries its doc on the declaration
		doc := typeSpec.Doc
		if doc == nil && len(decl.Specs) == 1 {
			doc = decl.Doc
		}
		if doc == nil || !hasAnnotation(doc.Text(), autowireAnnotationTag) {
			continue
		}

		log := logger.With().Str("struct", typeSpec.Name.Name).Logger()
		log.Debug().Msg("=> Found struct")

		annotation := parseAutowireAnnotation(&log, doc.Text(), autowireAnnotationTag)
		named, _ := annotation.Named()
		s.types = append(s.types, TypeDefinition{
			Named:       named,
			Description: annotation.description,
			TypeName:    typeSpec.Name.Name,
			ImportPath:  importPath,
		})
	}
}

func scanParams(logger *zerolog.Logger, fset *token.FileSet, file *ast.File, fields *ast.FieldList) []ParamDefinition {
	if fields == nil {
		return nil
	}

	var params []ParamDefinition
	for _, field := range fields.List {
		typeName := formatType(field.Type)
		def, hasDefault := parseDefaultAnnotation(logger, findCommentForParam(fset, file, field))

		names := slices.Map(field.Names, func(ident *ast.Ident) string { return ident.Name })
		if len(names) == 0 {
			names = []string{""}
		}
		for _, name := range names {
			if name == "_" {
				name = ""
			}
			params = append(params, ParamDefinition{
				Name:       name,
				TypeName:   typeName,
				Default:    def,
				HasDefault: hasDefault,
			})
		}
	}
	return params
}

// result attaches the entry points to their types. Entry points of types which are not
// autowired are reported and dropped.
func (s *scanner) result() (*RegistryDefinition, []TypeDefinition) {
	types := make([]TypeDefinition, len(s.types))
	attached := make(map[string]bool)
	for i, t := range s.types {
		t.Methods = s.methods[t.key()]
		attached[t.key()] = true
		types[i] = t
	}
	for key, methods := range s.methods {
		if !attached[key] {
			for _, m := range methods {
				s.logger.Warn().Msgf("Entry point %s of %s is not on an autowired type, ignoring it", m.Name, key)
			}
		}
	}
	return s.registry, types
}
