//go:build linux

package v4l2

import "fmt"

// ControlType identifies the kind of a control, mirroring v4l2_ctrl_type.
type ControlType uint32

// Control types from videodev2.h.
const (
	ControlTypeInteger     ControlType = 1
	ControlTypeBoolean     ControlType = 2
	ControlTypeMenu        ControlType = 3
	ControlTypeButton      ControlType = 4
	ControlTypeInteger64   ControlType = 5
	ControlTypeCtrlClass   ControlType = 6
	ControlTypeString      ControlType = 7
	ControlTypeBitmask     ControlType = 8
	ControlTypeIntegerMenu ControlType = 9

	// Compound types.
	ControlTypeU8   ControlType = 0x0100
	ControlTypeU16  ControlType = 0x0101
	ControlTypeU32  ControlType = 0x0102
	ControlTypeArea ControlType = 0x0106
)

func (t ControlType) String() string {
	switch t {
	case ControlTypeInteger:
		return "integer"
	case ControlTypeBoolean:
		return "boolean"
	case ControlTypeMenu:
		return "menu"
	case ControlTypeButton:
		return "button"
	case ControlTypeInteger64:
		return "integer64"
	case ControlTypeCtrlClass:
		return "class"
	case ControlTypeString:
		return "string"
	case ControlTypeBitmask:
		return "bitmask"
	case ControlTypeIntegerMenu:
		return "integer-menu"
	case ControlTypeU8:
		return "u8-array"
	case ControlTypeU16:
		return "u16-array"
	case ControlTypeU32:
		return "u32-array"
	case ControlTypeArea:
		return "area"
	default:
		return fmt.Sprintf("unknown(0x%x)", uint32(t))
	}
}

// IsMenu reports whether the type carries menu items.
func (t ControlType) IsMenu() bool {
	return t == ControlTypeMenu || t == ControlTypeIntegerMenu
}

// Value is the typed payload of a control. Exactly one concrete variant
// is carried at a time; a nil Value means "no payload" (buttons, class
// markers). The variant must match the ControlType declared by the
// corresponding Description for the exchange to be meaningful.
type Value interface {
	isValue()
}

// Integer carries integer, menu and 64-bit integer control values.
type Integer int64

// Boolean carries boolean control values.
type Boolean bool

// String carries string control values.
type String string

// CompoundU8 carries a byte-array control payload.
type CompoundU8 []uint8

// CompoundU16 carries a 16-bit-word-array control payload.
type CompoundU16 []uint16

// CompoundU32 carries a 32-bit-word-array control payload.
type CompoundU32 []uint32

// CompoundPtr carries an opaque pointer-backed payload as raw bytes;
// the byte length travels with the value.
type CompoundPtr []byte

func (Integer) isValue()     {}
func (Boolean) isValue()     {}
func (String) isValue()      {}
func (CompoundU8) isValue()  {}
func (CompoundU16) isValue() {}
func (CompoundU32) isValue() {}
func (CompoundPtr) isValue() {}

// Control pairs a control id with a value, as sent to or received from
// the device.
type Control struct {
	ID    uint32
	Value Value
}

// Class returns the control class of an id, the namespace grouping in
// the top 16 bits. Every control in a batched set operation must share
// this class.
func Class(id uint32) uint32 {
	return id & 0xFFFF0000
}

// MenuItem is one entry of a menu control. Menu controls carry a Name,
// integer-menu controls carry a Value.
type MenuItem struct {
	Index uint32
	Name  string
	Value int64
}

// Description describes one configurable device parameter as reported
// by control enumeration. Items is non-nil exactly when Type is a menu
// kind; driver-rejected indices inside [Minimum, Maximum] are absent.
type Description struct {
	ID      uint32
	Name    string
	Type    ControlType
	Minimum int64
	Maximum int64
	Step    uint64
	Default int64
	Flags   uint32
	Items   []MenuItem
}

func descriptionFromWire(q *v4l2_query_ext_ctrl) Description {
	return Description{
		ID:      q.id,
		Name:    cstr(q.name[:]),
		Type:    ControlType(q.typ),
		Minimum: q.minimum,
		Maximum: q.maximum,
		Step:    q.step,
		Default: q.default_value,
		Flags:   q.flags,
	}
}
