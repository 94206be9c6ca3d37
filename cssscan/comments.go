package cssscan

import "strings"

// stripLineComments blanks out // comments of preprocessor languages so the CSS
// lexer does not see imports or bindings inside them. Strings, block comments and
// url(...) arguments are left untouched.
func stripLineComments(src string) string {
	if !strings.Contains(src, "//") {
		return src
	}

	var (
		out    strings.Builder
		quote  byte
		block  bool
		parens int
	)
	out.Grow(len(src))

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case block:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				block = false
				out.WriteString("*/")
				i++
				continue
			}
		case quote != 0:
			if c == '\\' && i+1 < len(src) {
				out.WriteByte(c)
				out.WriteByte(src[i+1])
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			parens++
		case c == ')':
			if parens > 0 {
				parens--
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			block = true
			out.WriteString("/*")
			i++
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '/' && parens == 0:
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				out.WriteByte('\n')
			}
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}
