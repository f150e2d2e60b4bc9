package models

// Field names an editable ad column. Every update statement is built from
// this fixed set; arbitrary strings never reach SQL.
type Field string

const (
	FieldName     Field = "name"
	FieldPhone    Field = "phone"
	FieldArea     Field = "area"
	FieldCity     Field = "city"
	FieldCapacity Field = "capacity"
	FieldDate     Field = "date_available"
)

// EditableFields lists the fields offered in the edit keyboard, in order.
var EditableFields = []Field{FieldName, FieldPhone, FieldArea, FieldCity, FieldCapacity, FieldDate}

func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldPhone, FieldArea, FieldCity, FieldCapacity, FieldDate:
		return true
	}
	return false
}
