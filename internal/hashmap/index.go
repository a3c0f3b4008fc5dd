package hashmap

import (
	"math"
	"reflect"

	"github.com/xiaq/persistent/hash"
)

// nilKeySlot is the bucket every nil key (nil interface, pointer or channel) is stored in
const nilKeySlot = 0

// Hasher is implemented by keys that provide their own hash code.
// Keys that are equal according to == must return the same hash code.
type Hasher interface {
	HashCode() int32
}

// indexFor maps a key to its bucket in a table with the given capacity.
// The result is always in [0, capacity).
func indexFor[K comparable](key K, capacity int) int {
	if isNilKey(key) {
		return nilKeySlot
	}
	return int(uint32(hashCode(key))&math.MaxInt32) % capacity
}

func isNilKey[K comparable](key K) bool {
	raw := any(key)
	if raw == nil {
		return true
	}
	switch ref := reflect.ValueOf(raw); ref.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Interface:
		return ref.IsNil()
	default:
		return false
	}
}

// hashCode computes the hash code of a key.
// Strings use the 31-polynomial over their runes, so e.g. "AaAa" and "BBBB" collide.
func hashCode[K comparable](key K) int32 {
	switch val := any(key).(type) {
	case Hasher:
		return val.HashCode()
	case string:
		return stringHash(val)
	case int:
		return int32(hash.UInt64(uint64(val)))
	case int32:
		return val
	case int64:
		return int32(hash.UInt64(uint64(val)))
	case uint32:
		return int32(hash.UInt32(val))
	case uint64:
		return int32(hash.UInt64(val))
	default:
		return reflectHash(reflect.ValueOf(val))
	}
}

func stringHash(str string) int32 {
	var h int32
	for _, char := range str {
		h = 31*h + char
	}
	return h
}

// reflectHash hashes any comparable value structurally, consistent with ==
func reflectHash(ref reflect.Value) int32 {
	switch ref.Kind() {
	case reflect.Invalid:
		return 0
	case reflect.Bool:
		if ref.Bool() {
			return 1231
		}
		return 1237
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int32(hash.UInt64(uint64(ref.Int())))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int32(hash.UInt64(ref.Uint()))
	case reflect.Float32, reflect.Float64:
		return floatHash(ref.Float())
	case reflect.Complex64, reflect.Complex128:
		c := ref.Complex()
		return 31*floatHash(real(c)) + floatHash(imag(c))
	case reflect.String:
		return stringHash(ref.String())
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return int32(hash.UInt64(uint64(ref.Pointer())))
	case reflect.Interface:
		if ref.IsNil() {
			return 0
		}
		return reflectHash(ref.Elem())
	case reflect.Array:
		var h int32 = 1
		for i := 0; i < ref.Len(); i++ {
			h = 31*h + reflectHash(ref.Index(i))
		}
		return h
	case reflect.Struct:
		var h int32 = 1
		for i := 0; i < ref.NumField(); i++ {
			h = 31*h + reflectHash(ref.Field(i))
		}
		return h
	default:
		// Non-comparable kinds can't be map keys; == would panic before this matters
		return 0
	}
}

func floatHash(f float64) int32 {
	// +0.0 == -0.0
	if f == 0 {
		return 0
	}
	return int32(hash.UInt64(math.Float64bits(f)))
}
