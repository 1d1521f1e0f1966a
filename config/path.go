package config

import (
	"fmt"
	"strconv"
	"strings"
)

// splitKey splits a dotted key such as "db.hosts.0" into its segments.
func splitKey(key string) ([]string, error) {
	if key == "" {
		return nil, nil
	}
	parts := strings.Split(key, ".")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return parts, nil
}

func lookup(root Map, parts []string) (Value, bool) {
	current := NewTable(root)
	for _, part := range parts {
		switch current.kind {
		case KindTable:
			next, ok := current.table[part]
			if !ok {
				return Value{}, false
			}
			current = next
		case KindArray:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(current.array) {
				return Value{}, false
			}
			current = current.array[idx]
		default:
			return Value{}, false
		}
	}
	return current, true
}

// assign sets the value at the given path, creating intermediate tables.
// Anything that is not a table along the way is replaced.
func assign(root Map, parts []string, value Value) {
	current := root
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return
		}
		next, ok := current[part]
		if !ok || next.kind != KindTable || next.table == nil {
			next = NewTable(make(Map))
			current[part] = next
		}
		current = next.table
	}
}

// merge overlays src onto dst. Tables merge key by key, every other kind
// replaces what dst holds.
func merge(dst, src Map) {
	for k, v := range src {
		if v.kind == KindTable {
			if existing, ok := dst[k]; ok && existing.kind == KindTable && existing.table != nil {
				merge(existing.table, v.table)
				continue
			}
			dst[k] = NewTable(v.table.Clone())
			continue
		}
		dst[k] = v.clone()
	}
}
