package sfc

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

func scriptLanguage(lang string) *sitter.Language {
	switch strings.ToLower(lang) {
	case "ts":
		return typescript.GetLanguage()
	case "tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// ScriptVariables returns the top-level bindings declared by a script block:
// const/let/var declarators (destructuring included), functions, classes and
// imported names. Expression references the declared name; Initializer holds
// the declarator's initializer text for plain identifier declarators.
func ScriptVariables(source []byte, lang string) ([]stylegraph.ScriptVariable, error) {
	if len(strings.TrimSpace(string(source))) == 0 {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(scriptLanguage(lang))

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	defer tree.Close()

	c := collector{src: source}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c.statement(root.NamedChild(i))
	}
	return c.vars, nil
}

type collector struct {
	src  []byte
	vars []stylegraph.ScriptVariable
}

func (c *collector) add(name, initializer string) {
	if name == "" {
		return
	}
	c.vars = append(c.vars, stylegraph.ScriptVariable{Name: name, Expression: name, Initializer: initializer})
}

func (c *collector) statement(n *sitter.Node) {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			decl := n.NamedChild(i)
			if decl.Type() != "variable_declarator" {
				continue
			}
			var initializer string
			if value := decl.ChildByFieldName("value"); value != nil {
				initializer = value.Content(c.src)
			}
			c.pattern(decl.ChildByFieldName("name"), initializer)
		}
	case "function_declaration", "generator_function_declaration", "class_declaration", "enum_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			c.add(name.Content(c.src), "")
		}
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			c.statement(decl)
		}
	case "import_statement":
		c.imports(n)
	}
}

// pattern records every identifier bound by a declarator name.
func (c *collector) pattern(n *sitter.Node, initializer string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		c.add(n.Content(c.src), initializer)
	case "pair_pattern":
		c.pattern(n.ChildByFieldName("value"), "")
	case "assignment_pattern", "object_assignment_pattern":
		c.pattern(n.ChildByFieldName("left"), "")
	case "rest_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c.pattern(n.NamedChild(i), "")
		}
	case "object_pattern", "array_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c.pattern(n.NamedChild(i), "")
		}
	}
}

func (c *collector) imports(n *sitter.Node) {
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Type() {
		case "import_specifier":
			name := node.ChildByFieldName("alias")
			if name == nil {
				name = node.ChildByFieldName("name")
			}
			if name != nil {
				c.add(name.Content(c.src), "")
			}
			return
		case "namespace_import":
			for i := 0; i < int(node.NamedChildCount()); i++ {
				if id := node.NamedChild(i); id.Type() == "identifier" {
					c.add(id.Content(c.src), "")
				}
			}
			return
		case "import_clause":
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				if child.Type() == "identifier" {
					c.add(child.Content(c.src), "")
					continue
				}
				walk(child)
			}
			return
		case "string":
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(n)
}
