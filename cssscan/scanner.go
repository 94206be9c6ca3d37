package cssscan

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

const (
	importKeyword = "@import"
	bindFunction  = "v-bind("
)

// Scanner finds @import targets and v-bind() references in style text.
// It implements stylegraph.StyleScanner.
type Scanner struct {
	log *zap.Logger
}

// New creates a scanner.
func New(log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{log: log.Named("cssscan")}
}

// ScanImports returns the local @import targets in source order. Remote imports
// (http:, https:, protocol-relative) are skipped.
func (s *Scanner) ScanImports(content string, lang stylegraph.Language) []stylegraph.Import {
	var imports []stylegraph.Import

	lexer := s.lexer(content, lang)
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt != css.AtKeywordToken || !strings.EqualFold(string(data), importKeyword) {
			continue
		}
		for _, target := range readImportTargets(lexer) {
			if isRemote(target) {
				s.log.Debug("Skipping remote @import", zap.String("url", target))
				continue
			}
			imports = append(imports, stylegraph.Import{Path: target})
		}
	}
	return imports
}

// ExtractBoundVariables returns the v-bind() names of the text in order of first use.
func (s *Scanner) ExtractBoundVariables(content string, lang stylegraph.Language) *stylegraph.BoundVariables {
	vars := stylegraph.NewBoundVariables()

	lexer := s.lexer(content, lang)
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt != css.FunctionToken || !strings.EqualFold(string(data), bindFunction) {
			continue
		}
		name, raw, ok := readBinding(lexer)
		if !ok {
			continue
		}
		vars.Add(name, raw)
	}
	return vars
}

func (s *Scanner) lexer(content string, lang stylegraph.Language) *css.Lexer {
	if lang.HasLineComments() {
		content = stripLineComments(content)
	}
	return css.NewLexer(parse.NewInputString(content))
}

// readImportTargets consumes one @import statement up to its semicolon. SCSS and
// Less allow a comma-separated list of targets.
func readImportTargets(lexer *css.Lexer) []string {
	var (
		targets []string
		inURL   bool
	)
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken, css.SemicolonToken, css.LeftBraceToken:
			return targets
		case css.StringToken:
			targets = append(targets, unquote(string(data)))
		case css.URLToken:
			targets = append(targets, urlTarget(string(data)))
		case css.FunctionToken:
			// url("x") lexes as a function around a string.
			inURL = strings.EqualFold(string(data), "url(")
		case css.RightParenthesisToken:
			inURL = false
		case css.IdentToken:
			if inURL {
				targets = append(targets, string(data))
			}
		}
	}
}

// readBinding consumes tokens after "v-bind(" up to the matching parenthesis.
func readBinding(lexer *css.Lexer) (name, raw string, ok bool) {
	var inner bytes.Buffer
	depth := 1
	for depth > 0 {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return "", "", false
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				continue
			}
		}
		inner.Write(data)
	}

	expr := strings.TrimSpace(inner.String())
	name = unquote(expr)
	if name == "" {
		return "", "", false
	}
	return name, bindFunction + expr + ")", true
}

func urlTarget(token string) string {
	s := strings.TrimSpace(token)
	if len(s) >= 4 && strings.EqualFold(s[:4], "url(") {
		s = s[4:]
	}
	s = strings.TrimSuffix(s, ")")
	return unquote(strings.TrimSpace(s))
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isRemote(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "//")
}
