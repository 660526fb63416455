package codecgen

import (
	"fmt"
	"reflect"

	"github.com/danmuck/hotsync/internal/protocol/schema"
)

func (g *generator) emitRead(s *schema.Schema) error {
	if s.Min != nil {
		g.p("start := r.Offset()")
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Cond >= 0 {
			g.p("if %s {", field(s, f.Cond))
		}
		count := ""
		if f.Kind == schema.KindArray && f.Count.Kind == schema.CountField {
			count = g.readCount(f, &s.Fields[f.Count.Field], field(s, f.Count.Field))
		}
		if err := g.readValue(f, field(s, i), f.Name, count); err != nil {
			return err
		}
		if f.Cond >= 0 {
			g.p("}")
		}
	}
	if s.Min != nil {
		g.p("return r.SkipTo(start, %s)", g.minExpr(s))
		return nil
	}
	g.p("return nil")
	return nil
}

// readCount emits the element count held by src and returns its variable.
func (g *generator) readCount(f, src *schema.Field, expr string) string {
	n := g.temp()
	errorf := g.fmtErrorf()
	switch {
	case src.Kind == schema.KindInt:
		g.p("%s := int(%s)", n, expr)
		g.p("if %s < 0 {", n)
		g.p("return %s(\"%s: %%w: negative length %%d\", wire.ErrValueOutOfRange, %s)", errorf, f.Name, n)
		g.p("}")
	case src.Width >= 4:
		g.p("if %s > 0x7fffffff {", expr)
		g.p("return %s(\"%s: %%w: length %%d\", wire.ErrValueOutOfRange, %s)", errorf, f.Name, expr)
		g.p("}")
		g.p("%s := int(%s)", n, expr)
	default:
		g.p("%s := int(%s)", n, expr)
	}
	return n
}

func (g *generator) checkErr(label string, indexed bool) {
	g.p("if err != nil {")
	g.p("%s", g.wrapErr(label, indexed))
	g.p("}")
}

// readValue emits a read into expr. count names the element count variable
// for arrays sized by another field.
func (g *generator) readValue(f *schema.Field, expr, label, count string) error {
	indexed := f.Name == ""
	var t string
	if f.Kind != schema.KindCustom && f.Kind != schema.KindStruct && f.Kind != schema.KindArray {
		t = g.temp()
	}
	switch f.Kind {
	case schema.KindUint, schema.KindInt:
		if f.Width == 1 {
			g.p("%s, err := r.Uint8()", t)
		} else {
			g.p("%s, err := r.%s(%s)", t, cursorType(f.Width), g.byteOrder(f))
		}
		g.checkErr(label, indexed)
		g.p("%s = %s", expr, g.fromBase(f.Type, goType(f.Width), t))
	case schema.KindBool:
		g.p("%s, err := r.Bool()", t)
		g.checkErr(label, indexed)
		g.p("%s = %s", expr, g.fromBase(f.Type, "bool", t))
	case schema.KindCString:
		g.p("%s, err := r.CString()", t)
		g.checkErr(label, indexed)
		g.p("%s = %s", expr, g.fromBase(f.Type, "string", t))
	case schema.KindFixedString:
		g.p("%s, err := r.FixedString(%d, 0x%02x, %t)", t, f.Size, f.Pad, f.Nul)
		g.checkErr(label, indexed)
		g.p("%s = %s", expr, g.fromBase(f.Type, "string", t))
	case schema.KindCustom, schema.KindStruct:
		g.p("if err := %s.ReadBinary(r); err != nil {", expr)
		g.p("%s", g.wrapErr(label, indexed))
		g.p("}")
	case schema.KindArray:
		return g.readArray(f, expr, label, count)
	default:
		return fmt.Errorf("codecgen: %s: cannot read %v", label, f.Kind)
	}
	return nil
}

func (g *generator) readArray(f *schema.Field, expr, label, count string) error {
	if f.Count.Kind == schema.CountRest {
		return g.readRest(f, expr, label)
	}
	if count == "" {
		count = fmt.Sprint(f.Count.N)
	}
	if least := minElemSize(f.Elem); least > 0 {
		g.p("if %s > r.Remaining()/%d {", count, least)
		g.p("return %s(\"%s: %%w: %%d elements of at least %d bytes, have %%d\", wire.ErrShortBuffer, %s, r.Remaining())",
			g.fmtErrorf(), label, least, count)
		g.p("}")
	}

	isSlice := f.Type.Kind() == reflect.Slice
	if isSlice && f.Count.Kind == schema.CountField {
		g.p("if %s == 0 {", count)
		g.p("%s = nil", expr)
		g.p("} else {")
		defer g.p("}")
	}
	if f.Elem.Type == byteType {
		t := g.temp()
		g.p("%s, err := r.Bytes(%s)", t, count)
		g.checkErr(label, false)
		if isSlice {
			g.p("%s = append(%s(nil), %s...)", expr, g.typeExpr(f.Type), t)
		} else {
			g.p("copy(%s[:], %s)", expr, t)
		}
		return nil
	}
	if isSlice {
		g.p("%s = make(%s, %s)", expr, g.typeExpr(f.Type), count)
	}
	g.p("for i := range %s {", expr)
	if err := g.readValue(f.Elem, expr+"[i]", label, ""); err != nil {
		return err
	}
	g.p("}")
	return nil
}

func (g *generator) readRest(f *schema.Field, expr, label string) error {
	g.p("%s = nil", expr)
	if f.Elem.Type == byteType {
		t := g.temp()
		g.p("if r.Remaining() > 0 {")
		g.p("%s, err := r.Bytes(r.Remaining())", t)
		g.checkErr(label, false)
		g.p("%s = append(%s(nil), %s...)", expr, g.typeExpr(f.Type), t)
		g.p("}")
		return nil
	}
	g.p("for i := 0; r.Remaining() > 0; i++ {")
	g.p("var e %s", g.typeExpr(f.Type.Elem()))
	g.p("before := r.Offset()")
	if err := g.readValue(f.Elem, "e", label, ""); err != nil {
		return err
	}
	g.p("if r.Offset() == before {")
	g.p("return %s(\"%s[%%d]: element consumed no input\", i)", g.fmtErrorf(), label)
	g.p("}")
	g.p("%s = append(%s, e)", expr, expr)
	g.p("}")
	return nil
}

func minElemSize(f *schema.Field) int {
	switch f.Kind {
	case schema.KindUint, schema.KindInt, schema.KindBool:
		return f.Width
	case schema.KindFixedString:
		return f.Size
	case schema.KindCString:
		return 1
	case schema.KindStruct:
		if n, ok := f.Nested.FixedSize(); ok {
			return n
		}
	}
	return 0
}
