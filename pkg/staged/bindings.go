package staged

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// BindDocument binds every entry of a YAML mapping document into st, each
// value becoming a constant for the slot registered under the same name.
// The whole document is validated first: if any name is unregistered or
// any value cannot take its slot's kind, no slot is modified.
func (st *Stage) BindDocument(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("stage %s: %w", st.id, err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	st.mu.RLock()
	refs := make([]slotRef, len(names))
	for i, name := range names {
		reg, ok := st.slots[name]
		if !ok {
			st.mu.RUnlock()
			return &UnknownNameError{Stage: st.id, Name: name}
		}
		refs[i] = reg.slot
	}
	st.mu.RUnlock()

	for i, name := range names {
		if err := refs[i].checkRaw(doc[name]); err != nil {
			return err
		}
	}
	for i, name := range names {
		if err := refs[i].bindRaw(doc[name]); err != nil {
			return err
		}
	}
	return nil
}

// coerceNumeric widens a decoded YAML scalar across numeric kinds:
// integers convert to any numeric kind, floats to float kinds, and
// integral floats to integer kinds. The conversion must preserve the
// value exactly: sign changes, wraparound, overflow and precision loss
// are all rejected. Anything non-numeric is rejected.
func coerceNumeric(v any, want reflect.Type) (any, bool) {
	rv := reflect.ValueOf(v)
	k := want.Kind()
	if !isNumericKind(k) || !rv.IsValid() || !rv.CanConvert(want) {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int64:
		// Same-width sign wrap survives the round trip below, so the
		// sign has to be checked up front.
		if isUintKind(k) && rv.Int() < 0 {
			return nil, false
		}
	case reflect.Uint64:
		if isSignedIntKind(k) && rv.Uint() > math.MaxInt64 {
			return nil, false
		}
	case reflect.Float64:
		if isIntKind(k) && rv.Float() != math.Trunc(rv.Float()) {
			return nil, false
		}
	default:
		return nil, false
	}
	cv := rv.Convert(want)
	if back := cv.Convert(rv.Type()); !back.Equal(rv) {
		return nil, false
	}
	return cv.Interface(), true
}

func isNumericKind(k reflect.Kind) bool {
	return isIntKind(k) || isFloatKind(k)
}

func isIntKind(k reflect.Kind) bool {
	return isSignedIntKind(k) || isUintKind(k)
}

func isSignedIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
