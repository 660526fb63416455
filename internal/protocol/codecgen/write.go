package codecgen

import (
	"fmt"
	"reflect"

	"github.com/danmuck/hotsync/internal/protocol/schema"
)

func (g *generator) emitWrite(s *schema.Schema) error {
	if s.Min != nil {
		g.p("start := w.Len()")
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Cond >= 0 {
			g.p("if %s {", field(s, f.Cond))
		}
		var err error
		if f.SizeOf >= 0 {
			g.writeLength(f, field(s, f.SizeOf))
		} else {
			err = g.writeValue(f, field(s, i), f.Name)
		}
		if err != nil {
			return err
		}
		if f.Cond >= 0 {
			g.p("}")
		}
	}
	if s.Min != nil {
		g.p("w.PadTo(start, %s)", g.minExpr(s))
	}
	g.p("return nil")
	return nil
}

// writeLength emits a count field as the length of the slice it sizes.
func (g *generator) writeLength(f *schema.Field, slice string) {
	if f.Width < 4 {
		limit := uint64(1)<<(f.Width*8) - 1
		if f.Kind == schema.KindInt {
			limit >>= 1
		}
		g.p("if len(%s) > %d {", slice, limit)
		g.p("return %s(\"%s: %%w: %%d elements do not fit in %d bytes\", wire.ErrValueOutOfRange, len(%s))",
			g.fmtErrorf(), f.Name, f.Width, slice)
		g.p("}")
	}
	g.writeUint(f, "len("+slice+")")
}

func (g *generator) writeUint(f *schema.Field, expr string) {
	if f.Width == 1 {
		g.p("w.Uint8(uint8(%s))", expr)
		return
	}
	g.p("w.%s(%s(%s), %s)", cursorType(f.Width), goType(f.Width), expr, g.byteOrder(f))
}

func (g *generator) wrapErr(label string, indexed bool) string {
	if indexed {
		return fmt.Sprintf("return %s(\"%s[%%d]: %%w\", i, err)", g.fmtErrorf(), label)
	}
	return fmt.Sprintf("return %s(\"%s: %%w\", err)", g.fmtErrorf(), label)
}

func (g *generator) writeValue(f *schema.Field, expr, label string) error {
	indexed := f.Name == ""
	switch f.Kind {
	case schema.KindUint, schema.KindInt:
		g.writeUint(f, expr)
	case schema.KindBool:
		g.p("w.Bool(%s)", toBase(f.Type, "bool", expr))
	case schema.KindCString:
		g.p("if err := w.CString(%s); err != nil {", toBase(f.Type, "string", expr))
		g.p("%s", g.wrapErr(label, indexed))
		g.p("}")
	case schema.KindFixedString:
		g.p("if err := w.FixedString(%s, %d, 0x%02x, %t); err != nil {", toBase(f.Type, "string", expr), f.Size, f.Pad, f.Nul)
		g.p("%s", g.wrapErr(label, indexed))
		g.p("}")
	case schema.KindCustom, schema.KindStruct:
		g.p("if err := %s.WriteBinary(w); err != nil {", expr)
		g.p("%s", g.wrapErr(label, indexed))
		g.p("}")
	case schema.KindArray:
		if f.Count.Kind == schema.CountFixed {
			g.p("if len(%s) != %d {", expr, f.Count.N)
			g.p("return %s(\"%s: %%w: have %%d elements, want %d\", wire.ErrFixedSizeMismatch, len(%s))",
				g.fmtErrorf(), label, f.Count.N, expr)
			g.p("}")
		}
		if f.Elem.Type == byteType {
			if f.Type.Kind() == reflect.Array {
				g.p("w.Write(%s[:])", expr)
			} else {
				g.p("w.Write(%s)", expr)
			}
			return nil
		}
		g.p("for i := range %s {", expr)
		if err := g.writeValue(f.Elem, expr+"[i]", label); err != nil {
			return err
		}
		g.p("}")
	default:
		return fmt.Errorf("codecgen: %s: cannot write %v", label, f.Kind)
	}
	return nil
}
