package codecgen

import (
	"fmt"

	"github.com/danmuck/hotsync/internal/protocol/schema"
)

// constSize returns the size of a field that does not depend on its value.
func constSize(f *schema.Field) (int, bool) {
	switch f.Kind {
	case schema.KindUint, schema.KindInt, schema.KindBool:
		return f.Width, true
	case schema.KindFixedString:
		return f.Size, true
	case schema.KindStruct:
		return f.Nested.FixedSize()
	case schema.KindArray:
		if f.Count.Kind != schema.CountNatural && f.Count.Kind != schema.CountFixed {
			return 0, false
		}
		n, ok := constSize(f.Elem)
		return n * f.Count.N, ok
	}
	return 0, false
}

func (g *generator) emitSize(s *schema.Schema) {
	fixed := 0
	dynamic := s.Min != nil
	for i := range s.Fields {
		f := &s.Fields[i]
		if n, ok := constSize(f); ok && f.Cond < 0 {
			fixed += n
			continue
		}
		dynamic = true
	}
	if !dynamic {
		g.p("return %d", fixed)
		return
	}

	g.p("n := %d", fixed)
	for i := range s.Fields {
		f := &s.Fields[i]
		_, isConst := constSize(f)
		if isConst && f.Cond < 0 {
			continue
		}
		if f.Cond >= 0 {
			g.p("if %s {", field(s, f.Cond))
			g.sizeStmt(f, field(s, i))
			g.p("}")
			continue
		}
		g.sizeStmt(f, field(s, i))
	}
	if s.Min != nil {
		if s.Min.Field < 0 {
			g.p("if n < %d {", s.Min.N)
			g.p("n = %d", s.Min.N)
		} else {
			g.p("if m := %s; n < m {", g.minExpr(s))
			g.p("n = m")
		}
		g.p("}")
	}
	g.p("return n")
}

func (g *generator) sizeStmt(f *schema.Field, expr string) {
	if n, ok := constSize(f); ok {
		g.p("n += %d", n)
		return
	}
	switch f.Kind {
	case schema.KindCString:
		g.p("n += len(%s) + 1", expr)
	case schema.KindCustom, schema.KindStruct:
		g.p("n += %s.SizeBinary()", expr)
	case schema.KindArray:
		if n, ok := constSize(f.Elem); ok {
			if n == 1 {
				g.p("n += len(%s)", expr)
			} else {
				g.p("n += len(%s) * %d", expr, n)
			}
			return
		}
		g.p("for i := range %s {", expr)
		g.sizeStmt(f.Elem, expr+"[i]")
		g.p("}")
	default:
		panic(fmt.Sprintf("codecgen: size of %v", f.Kind))
	}
}
