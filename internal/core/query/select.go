package query

import (
	"fmt"
	"strings"
)

// Field is one item of a selection: a column, or an embedded relation when
// Fields is non-empty.
type Field struct {
	Name   string
	Inner  bool
	Fields []Field
}

// IsEmbed reports whether f embeds a related table.
func (f Field) IsEmbed() bool {
	return len(f.Fields) > 0
}

// ParseSelect parses a PostgREST select list. Whitespace is ignored.
func ParseSelect(s string) ([]Field, error) {
	p := &selectParser{src: s}
	fields, err := p.list()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return fields, nil
}

// MustParseSelect is ParseSelect for package-level selections.
func MustParseSelect(s string) []Field {
	fields, err := ParseSelect(s)
	if err != nil {
		panic(err)
	}
	return fields
}

// FormatSelect renders fields in compact PostgREST form.
func FormatSelect(fields []Field) string {
	var b strings.Builder
	writeFields(&b, fields)
	return b.String()
}

func writeFields(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		if !f.IsEmbed() {
			continue
		}
		if f.Inner {
			b.WriteString("!inner")
		}
		b.WriteByte('(')
		writeFields(b, f.Fields)
		b.WriteByte(')')
	}
}

type selectParser struct {
	src string
	pos int
}

func (p *selectParser) errorf(format string, args ...any) error {
	return fmt.Errorf("query: select %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *selectParser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *selectParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *selectParser) list() ([]Field, error) {
	var fields []Field
	for {
		f, err := p.item()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if p.peek() != ',' {
			return fields, nil
		}
		p.pos++
	}
}

func (p *selectParser) item() (Field, error) {
	name := p.ident()
	if name == "" {
		if p.pos >= len(p.src) {
			return Field{}, p.errorf("expected column name")
		}
		return Field{}, p.errorf("unexpected %q", p.src[p.pos])
	}
	f := Field{Name: name}

	if p.peek() == '!' {
		p.pos++
		if hint := p.ident(); hint != "inner" {
			return Field{}, p.errorf("unknown join hint %q", hint)
		}
		f.Inner = true
	}

	if p.peek() != '(' {
		if f.Inner {
			return Field{}, p.errorf("!inner on %q without an embedded selection", name)
		}
		return f, nil
	}
	p.pos++

	fields, err := p.list()
	if err != nil {
		return Field{}, err
	}
	if p.peek() != ')' {
		return Field{}, p.errorf("unclosed embed %q", name)
	}
	p.pos++
	f.Fields = fields
	return f, nil
}

func (p *selectParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}
