package schema

import (
	"fmt"
	"strconv"
	"strings"
)

const tagName = "binary"

type tagOptions struct {
	skip    bool
	endian  *Endian
	cond    string
	length  string
	size    int
	cstring bool
	pad     *byte
	nul     bool
	min     string
}

func parseTag(raw string) (tagOptions, error) {
	var opts tagOptions
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return opts, nil
	}
	if raw == "-" {
		opts.skip = true
		return opts, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		key, value, hasValue := strings.Cut(part, "=")
		switch key {
		case "":
			continue
		case "big", "little":
			if hasValue {
				return opts, fmt.Errorf("option %q takes no value", key)
			}
			e := BigEndian
			if key == "little" {
				e = LittleEndian
			}
			opts.endian = &e
		case "if":
			if value == "" {
				return opts, fmt.Errorf("option if requires a field name")
			}
			opts.cond = value
		case "len":
			if value == "" {
				return opts, fmt.Errorf("option len requires a field name or rest")
			}
			opts.length = value
		case "size":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return opts, fmt.Errorf("invalid size %q", value)
			}
			opts.size = n
		case "cstring":
			opts.cstring = true
		case "pad":
			n, err := strconv.ParseUint(value, 0, 8)
			if err != nil {
				return opts, fmt.Errorf("invalid pad %q", value)
			}
			b := byte(n)
			opts.pad = &b
		case "nul":
			opts.nul = true
		case "min":
			if value == "" {
				return opts, fmt.Errorf("option min requires a length or field name")
			}
			opts.min = value
		default:
			return opts, fmt.Errorf("unknown option %q", key)
		}
	}
	return opts, nil
}
