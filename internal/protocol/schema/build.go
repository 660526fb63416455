package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/danmuck/hotsync/internal/protocol/wire"
	"github.com/rs/zerolog/log"
)

var (
	marshalerType   = reflect.TypeFor[wire.Marshaler]()
	unmarshalerType = reflect.TypeFor[wire.Unmarshaler]()
	generatedType   = reflect.TypeFor[wire.Generated]()
	layoutType      = reflect.TypeFor[Layout]()
)

type entry struct {
	schema *Schema
	err    error
}

var (
	cache   sync.Map // reflect.Type -> entry
	buildMu sync.Mutex
)

// Of returns the schema for T.
func Of[T any]() (*Schema, error) {
	return For(reflect.TypeFor[T]())
}

// For returns the schema for t, building and caching it on first use. Pointer
// types resolve to their element type. Build errors are cached as well.
func For(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, &Error{Type: "<nil>", Reason: "nil type"}
	}
	if e, ok := cache.Load(t); ok {
		ent := e.(entry)
		return ent.schema, ent.err
	}

	buildMu.Lock()
	defer buildMu.Unlock()
	if e, ok := cache.Load(t); ok {
		ent := e.(entry)
		return ent.schema, ent.err
	}
	b := builder{building: make(map[reflect.Type]bool)}
	s, err := b.build(t)
	cache.Store(t, entry{schema: s, err: err})
	if err != nil {
		log.Debug().Str("type", t.String()).Err(err).Msg("schema build failed")
	} else {
		log.Trace().Str("type", t.String()).Int("fields", len(s.Fields)).Msg("schema built")
	}
	return s, err
}

// IsCustom reports whether values of t encode themselves instead of using a
// derived schema.
func IsCustom(t reflect.Type) bool {
	if t.Implements(generatedType) || reflect.PointerTo(t).Implements(generatedType) {
		return false
	}
	return t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType)
}

type builder struct {
	building map[reflect.Type]bool
}

func (b *builder) build(t reflect.Type) (*Schema, error) {
	if e, ok := cache.Load(t); ok {
		ent := e.(entry)
		return ent.schema, ent.err
	}
	if t.Kind() != reflect.Struct {
		return nil, &Error{Type: t.String(), Reason: "schema types must be structs, got " + t.Kind().String()}
	}
	if b.building[t] {
		return nil, &Error{Type: t.String(), Reason: "type contains itself"}
	}
	b.building[t] = true
	defer delete(b.building, t)

	s, err := b.buildStruct(t)
	if err == nil {
		cache.Store(t, entry{schema: s})
	}
	return s, err
}

func (b *builder) buildStruct(t reflect.Type) (*Schema, error) {
	s := &Schema{Type: t, Endian: BigEndian}
	fail := func(field, format string, args ...any) (*Schema, error) {
		return nil, &Error{Type: t.String(), Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	byName := make(map[string]int)
	minSource := ""
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		opts, err := parseTag(sf.Tag.Get(tagName))
		if err != nil {
			return fail(sf.Name, "%v", err)
		}
		if sf.Type == layoutType {
			if i != 0 {
				return fail(sf.Name, "Layout must be the first field")
			}
			if opts.skip || opts.cond != "" || opts.length != "" || opts.size > 0 ||
				opts.cstring || opts.pad != nil || opts.nul {
				return fail(sf.Name, "Layout takes only byte order and min options")
			}
			if opts.endian != nil {
				s.Endian = *opts.endian
			}
			minSource = opts.min
			continue
		}
		if opts.min != "" {
			return fail(sf.Name, "min is only valid on the Layout field")
		}
		if opts.skip || !sf.IsExported() {
			continue
		}

		endian := s.Endian
		if opts.endian != nil {
			endian = *opts.endian
		}
		f, err := b.field(sf.Name, sf.Type, endian, opts)
		if err != nil {
			return fail(sf.Name, "%v", err)
		}
		f.Index = i
		f.Cond = -1
		f.SizeOf = -1

		if opts.cond != "" {
			src, ok := byName[opts.cond]
			if !ok {
				return fail(sf.Name, "condition field %q must be declared earlier", opts.cond)
			}
			if s.Fields[src].Kind != KindBool {
				return fail(sf.Name, "condition field %q is not a bool", opts.cond)
			}
			f.Cond = src
		}
		if opts.length != "" && opts.length != "rest" {
			src, ok := byName[opts.length]
			if !ok {
				return fail(sf.Name, "length field %q must be declared earlier", opts.length)
			}
			counter := &s.Fields[src]
			if counter.Kind != KindUint && counter.Kind != KindInt {
				return fail(sf.Name, "length field %q is not an integer", opts.length)
			}
			if counter.Cond >= 0 {
				return fail(sf.Name, "length field %q is conditional", opts.length)
			}
			if counter.SizeOf >= 0 {
				return fail(sf.Name, "length field %q already counts %s", opts.length, s.Fields[counter.SizeOf].Name)
			}
			counter.SizeOf = len(s.Fields)
			f.Count.Field = src
		}

		byName[sf.Name] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}

	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Kind == KindArray && f.Count.Kind == CountRest && i != len(s.Fields)-1 {
			return fail(f.Name, "len=rest is only allowed on the last field")
		}
	}

	if minSource != "" {
		if n, err := strconv.Atoi(minSource); err == nil {
			if n <= 0 {
				return fail("", "invalid minimum length %d", n)
			}
			s.Min = &MinLength{Field: -1, N: n}
		} else {
			src, ok := byName[minSource]
			if !ok {
				return fail("", "minimum length field %q not found", minSource)
			}
			if f := &s.Fields[src]; f.Kind != KindUint || f.Width > 2 {
				return fail("", "minimum length field %q must be uint8 or uint16", minSource)
			}
			s.Min = &MinLength{Field: src}
		}
	}
	return s, nil
}

func (b *builder) field(name string, t reflect.Type, endian Endian, opts tagOptions) (Field, error) {
	f := Field{Name: name, Type: t, Endian: endian, Index: -1, Cond: -1, SizeOf: -1}

	if IsCustom(t) {
		if opts.length != "" || opts.size > 0 || opts.cstring {
			return f, fmt.Errorf("%s encodes itself and takes no layout options", t)
		}
		if !reflect.PointerTo(t).Implements(unmarshalerType) {
			return f, fmt.Errorf("%s implements Marshaler without Unmarshaler", t)
		}
		f.Kind = KindCustom
		return f, nil
	}

	if t.Kind() == reflect.String {
		switch {
		case opts.cstring && opts.size > 0:
			return f, fmt.Errorf("cstring and size are exclusive")
		case opts.cstring:
			f.Kind = KindCString
		case opts.size > 0:
			f.Kind = KindFixedString
			f.Size = opts.size
			f.Nul = opts.nul
			if opts.pad != nil {
				f.Pad = *opts.pad
			}
		default:
			return f, fmt.Errorf("string fields need cstring or size=N")
		}
		return f, nil
	}
	if opts.cstring || opts.pad != nil || opts.nul {
		return f, fmt.Errorf("string options on %s field", t.Kind())
	}

	if kind, width, ok := primitive(t); ok {
		if opts.length != "" || opts.size > 0 {
			return f, fmt.Errorf("len and size apply to arrays only")
		}
		f.Kind, f.Width = kind, width
		return f, nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if opts.length != "" || opts.size > 0 {
			return f, fmt.Errorf("len and size apply to arrays only")
		}
		nested, err := b.build(t)
		if err != nil {
			return f, err
		}
		f.Kind = KindStruct
		f.Nested = nested
		return f, nil

	case reflect.Array, reflect.Slice:
		elem, err := b.field(name, t.Elem(), endian, tagOptions{})
		if err != nil {
			return f, err
		}
		if elem.Kind == KindArray {
			return f, fmt.Errorf("nested arrays are not supported")
		}
		elem.Name = ""
		f.Kind = KindArray
		f.Elem = &elem
		if t.Kind() == reflect.Array {
			if opts.length != "" || opts.size > 0 {
				return f, fmt.Errorf("fixed arrays take their length from the type")
			}
			f.Count = Count{Kind: CountNatural, N: t.Len()}
			return f, nil
		}
		switch {
		case opts.length == "rest":
			f.Count = Count{Kind: CountRest}
		case opts.length != "":
			f.Count = Count{Kind: CountField}
		case opts.size > 0:
			f.Count = Count{Kind: CountFixed, N: opts.size}
		default:
			return f, fmt.Errorf("slice fields need len=Field, len=rest or size=N")
		}
		return f, nil
	}
	return f, fmt.Errorf("unsupported kind %s", t.Kind())
}

func primitive(t reflect.Type) (Kind, int, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return KindBool, 1, true
	case reflect.Uint8:
		return KindUint, 1, true
	case reflect.Uint16:
		return KindUint, 2, true
	case reflect.Uint32:
		return KindUint, 4, true
	case reflect.Uint64:
		return KindUint, 8, true
	case reflect.Int8:
		return KindInt, 1, true
	case reflect.Int16:
		return KindInt, 2, true
	case reflect.Int32:
		return KindInt, 4, true
	case reflect.Int64:
		return KindInt, 8, true
	}
	return 0, 0, false
}
