package types

import (
	"fmt"
	"time"
)

// DataType describes a SQL column type. The optimizer only needs type names
// and average widths for costing, so the surface here is deliberately small.
type DataType interface {
	// Name returns the SQL name of the type.
	Name() string
	// Size returns the average storage size in bytes.
	Size() int
}

type basicType struct {
	name string
	size int
}

func (t basicType) Name() string { return t.name }
func (t basicType) Size() int    { return t.size }

// Built-in data types.
var (
	Integer   DataType = basicType{name: "INTEGER", size: 4}
	BigInt    DataType = basicType{name: "BIGINT", size: 8}
	Float     DataType = basicType{name: "DOUBLE PRECISION", size: 8}
	Boolean   DataType = basicType{name: "BOOLEAN", size: 1}
	Text      DataType = basicType{name: "TEXT", size: 32}
	Timestamp DataType = basicType{name: "TIMESTAMP", size: 8}
)

// Value is a typed SQL value.
type Value struct {
	Data any
	Null bool
}

// NewNullValue creates a NULL value.
func NewNullValue() Value {
	return Value{Null: true}
}

// NewIntegerValue creates an integer value.
func NewIntegerValue(v int64) Value {
	return Value{Data: v}
}

// NewFloatValue creates a float value.
func NewFloatValue(v float64) Value {
	return Value{Data: v}
}

// NewTextValue creates a text value.
func NewTextValue(v string) Value {
	return Value{Data: v}
}

// NewBooleanValue creates a boolean value.
func NewBooleanValue(v bool) Value {
	return Value{Data: v}
}

// NewTimestampValue creates a timestamp value.
func NewTimestampValue(v time.Time) Value {
	return Value{Data: v}
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.Null
}

func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	switch d := v.Data.(type) {
	case string:
		return fmt.Sprintf("'%s'", d)
	case time.Time:
		return fmt.Sprintf("'%s'", d.Format(time.RFC3339))
	default:
		return fmt.Sprintf("%v", d)
	}
}
