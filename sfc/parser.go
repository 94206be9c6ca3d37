package sfc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
	"go.uber.org/zap"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// DefaultCacheSize is the number of parsed components kept by NewParser.
const DefaultCacheSize = 512

// Parser splits single-file components into style and script blocks.
// It implements stylegraph.DescriptorProvider.
type Parser struct {
	log   *zap.Logger
	cache *lru.Cache[string, stylegraph.Descriptor]
}

// NewParser creates a parser that remembers the last cacheSize results by path
// and content hash.
func NewParser(log *zap.Logger, cacheSize int) (*Parser, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, stylegraph.Descriptor](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create descriptor cache: %w", err)
	}
	return &Parser{log: log.Named("sfc"), cache: cache}, nil
}

// Descriptor parses content, reusing the cached result for identical input.
func (p *Parser) Descriptor(path string, content []byte) (stylegraph.Descriptor, error) {
	sum := sha256.Sum256(content)
	key := path + "\x00" + hex.EncodeToString(sum[:])
	if desc, ok := p.cache.Get(key); ok {
		p.log.Debug("Descriptor cache hit", zap.String("path", path))
		return desc, nil
	}

	desc, err := Parse(content)
	if err != nil {
		return stylegraph.Descriptor{}, err
	}
	p.cache.Add(key, desc)
	p.log.Debug("Parsed component",
		zap.String("path", path),
		zap.Int("styles", len(desc.Styles)),
		zap.Int("scriptVariables", len(desc.ScriptVariables)))
	return desc, nil
}

// Parse splits a component into its top-level <style> and <script> blocks and
// collects the variables declared by its scripts.
func Parse(content []byte) (stylegraph.Descriptor, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return stylegraph.Descriptor{}, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return stylegraph.Descriptor{}, fmt.Errorf("failed to parse component: %w", err)
	}
	defer tree.Close()

	var (
		desc    stylegraph.Descriptor
		scripts []block
	)
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "style_element":
			b := readBlock(child, content)
			desc.Styles = append(desc.Styles, stylegraph.StyleBlock{
				Content: b.text,
				Lang:    b.attrs["lang"],
			})
		case "script_element":
			scripts = append(scripts, readBlock(child, content))
		}
	}

	seen := make(map[string]bool)
	for _, s := range scripts {
		lang := s.attrs["lang"]
		if _, setup := s.attrs["setup"]; setup {
			desc.ScriptSetup = true
		}
		if desc.ScriptLang == "" {
			desc.ScriptLang = lang
		}
		vars, err := ScriptVariables([]byte(s.text), lang)
		if err != nil {
			return stylegraph.Descriptor{}, err
		}
		for _, v := range vars {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			desc.ScriptVariables = append(desc.ScriptVariables, v)
		}
	}
	return desc, nil
}

type block struct {
	attrs map[string]string
	text  string
}

func readBlock(n *sitter.Node, src []byte) block {
	b := block{attrs: make(map[string]string)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "start_tag":
			readAttributes(child, src, b.attrs)
		case "raw_text":
			b.text = child.Content(src)
		}
	}
	return b
}

func readAttributes(tag *sitter.Node, src []byte, attrs map[string]string) {
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		attr := tag.NamedChild(i)
		if attr.Type() != "attribute" {
			continue
		}
		var name, value string
		for j := 0; j < int(attr.NamedChildCount()); j++ {
			part := attr.NamedChild(j)
			switch part.Type() {
			case "attribute_name":
				name = strings.ToLower(part.Content(src))
			case "attribute_value":
				value = part.Content(src)
			case "quoted_attribute_value":
				value = strings.Trim(part.Content(src), `"'`)
			}
		}
		if name != "" {
			attrs[name] = value
		}
	}
}
