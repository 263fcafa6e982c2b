package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Parse reads a metricd configuration file from r and returns its contents
// as a synthetic root Block whose Children are the top-level options and
// blocks. name is used in error messages and to resolve relative Include
// paths; it may be empty if r is not backed by a file.
//
// The grammar matches collectd's own configuration file format:
//
//	Key "value" 123 true
//	<Block "arg">
//	  Nested "value"
//	</Block>
//	Include "other.conf"
//	# comment
//
// Strings are double-quoted with backslash escapes; unquoted tokens parse
// as a number if they look like one, as a boolean for the case-insensitive
// words true/false/yes/no/on/off, and as a string otherwise. Include
// directives are expanded inline, in lexical order when the argument is a
// glob.
func Parse(r io.Reader, name string) (*Block, error) {
	p := &parser{
		lex:  newLexer(r),
		name: name,
		dir:  filepath.Dir(name),
	}
	root := &Block{Key: "", Children: nil}
	if err := p.parseBlockBody(root, ""); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseFile reads and parses the configuration file at path, including any
// files pulled in via Include.
func ParseFile(path string) (*Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, path)
}

type parser struct {
	lex  *lexer
	name string
	dir  string
}

// parseBlockBody parses statements until EOF (closeKey == "") or a closing
// "</closeKey>" tag is consumed.
func (p *parser) parseBlockBody(into *Block, closeKey string) error {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokEOF:
			if closeKey != "" {
				return fmt.Errorf("%s: unexpected EOF, expected </%s>", p.name, closeKey)
			}
			return nil
		case tokCloseTag:
			if closeKey == "" {
				return fmt.Errorf("%s:%d: unexpected </%s>", p.name, tok.line, tok.text)
			}
			if !strings.EqualFold(tok.text, closeKey) {
				return fmt.Errorf("%s:%d: mismatched close tag </%s>, expected </%s>", p.name, tok.line, tok.text, closeKey)
			}
			return nil
		case tokOpenTag:
			child := Block{Key: tok.text}
			args, err := p.lex.restOfLineValues()
			if err != nil {
				return err
			}
			child.Values = args
			if err := p.parseBlockBody(&child, tok.text); err != nil {
				return err
			}
			into.Children = append(into.Children, child)
		case tokIdent:
			values, err := p.lex.restOfLineValues()
			if err != nil {
				return err
			}
			if strings.EqualFold(tok.text, "Include") {
				if err := p.expandInclude(into, values, tok.line); err != nil {
					return err
				}
				continue
			}
			into.Children = append(into.Children, Block{Key: tok.text, Values: values})
		default:
			return fmt.Errorf("%s:%d: unexpected token", p.name, tok.line)
		}
	}
}

func (p *parser) expandInclude(into *Block, args []Value, line int) error {
	if len(args) != 1 || !args[0].IsString() {
		return fmt.Errorf("%s:%d: Include requires exactly one string argument", p.name, line)
	}
	pattern := args[0].String()
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(p.dir, pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("%s:%d: Include %q: %w", p.name, line, pattern, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return fmt.Errorf("%s:%d: Include %q matched no files", p.name, line, pattern)
	}

	for _, m := range matches {
		included, err := ParseFile(m)
		if err != nil {
			return err
		}
		into.Children = append(into.Children, included.Children...)
	}
	return nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokOpenTag
	tokCloseTag
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lexer tokenizes the config grammar line by line: each logical line
// starts with either an identifier, a "<Tag ...>" opening tag, or a
// "</Tag>" closing tag, followed by zero or more values.
type lexer struct {
	r    *bufio.Reader
	line int

	pending []rune
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r)}
}

// next reads the next non-blank, non-comment logical line and returns its
// leading keyword token. Call restOfLineValues to consume the remainder of
// that same line.
func (l *lexer) next() (token, error) {
	for {
		line, err := l.readLogicalLine()
		if err == io.EOF && line == "" {
			return token{kind: tokEOF, line: l.line}, nil
		}
		if err != nil && err != io.EOF {
			return token{}, err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			if err == io.EOF {
				return token{kind: tokEOF, line: l.line}, nil
			}
			continue
		}

		if strings.HasPrefix(trimmed, "</") {
			end := strings.IndexByte(trimmed, '>')
			if end < 0 {
				return token{}, fmt.Errorf("line %d: unterminated close tag", l.line)
			}
			key := strings.TrimSpace(trimmed[2:end])
			l.pending = nil
			return token{kind: tokCloseTag, text: key, line: l.line}, nil
		}
		if strings.HasPrefix(trimmed, "<") {
			end := strings.IndexByte(trimmed, '>')
			if end < 0 {
				return token{}, fmt.Errorf("line %d: unterminated open tag", l.line)
			}
			inner := strings.TrimSpace(trimmed[1:end])
			key, rest := splitKeyword(inner)
			if key == "" {
				return token{}, fmt.Errorf("line %d: empty tag", l.line)
			}
			l.pending = []rune(rest)
			return token{kind: tokOpenTag, text: key, line: l.line}, nil
		}

		key, rest := splitKeyword(trimmed)
		l.pending = []rune(rest)
		return token{kind: tokIdent, text: key, line: l.line}, nil
	}
}

// splitKeyword splits s into its leading unquoted word and the remaining
// text, e.g. `Plugin "syslog"` -> ("Plugin", `"syslog"`).
func splitKeyword(s string) (key, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

// field is one whitespace-separated token, remembering whether it was
// double-quoted in the source so the caller can tell "123" (a string) from
// 123 (a number).
type field struct {
	text   string
	quoted bool
}

// splitFieldsTagged splits s on whitespace while keeping double-quoted
// substrings intact, so `Key "a b" c` yields [{"Key",false}, {"a b",true},
// {"c",false}].
func splitFieldsTagged(s string) []field {
	var fields []field
	var cur strings.Builder
	inQuotes := false
	wasQuoted := false
	hasCur := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			wasQuoted = true
			hasCur = true
		case c == '\\' && inQuotes && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == ' ' || c == '\t':
			if inQuotes {
				cur.WriteByte(c)
			} else if hasCur {
				fields = append(fields, field{text: cur.String(), quoted: wasQuoted})
				cur.Reset()
				hasCur = false
				wasQuoted = false
			}
		default:
			cur.WriteByte(c)
			hasCur = true
		}
	}
	if hasCur {
		fields = append(fields, field{text: cur.String(), quoted: wasQuoted})
	}
	return fields
}

// restOfLineValues parses the remainder of the most recently returned
// line's tokens into Values.
func (l *lexer) restOfLineValues() ([]Value, error) {
	rest := strings.TrimSpace(string(l.pending))
	l.pending = nil
	if rest == "" {
		return nil, nil
	}

	var values []Value
	for _, f := range splitFieldsTagged(rest) {
		values = append(values, parseToken(f))
	}
	return values, nil
}

func parseToken(f field) Value {
	if f.quoted {
		return StringValue(f.text)
	}
	switch strings.ToLower(f.text) {
	case "true", "yes", "on":
		return BoolValue(true)
	case "false", "no", "off":
		return BoolValue(false)
	}
	if n, err := strconv.ParseFloat(f.text, 64); err == nil {
		return Float64Value(n)
	}
	return StringValue(f.text)
}

// readLogicalLine reads one physical line from the underlying reader,
// stripping the trailing newline. A backslash immediately before the
// newline continues the logical line onto the next physical line.
func (l *lexer) readLogicalLine() (string, error) {
	var b strings.Builder
	for {
		line, err := l.r.ReadString('\n')
		l.line++
		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			b.WriteString(strings.TrimSuffix(line, "\\"))
			if err != nil {
				return b.String(), err
			}
			continue
		}
		b.WriteString(line)
		return b.String(), err
	}
}
