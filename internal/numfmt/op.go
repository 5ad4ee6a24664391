package numfmt

// Op names a conversion operation.
type Op string

// Supported conversion operations.
const (
	OpToStrInt        Op = "to_str_int"
	OpToStrFloat      Op = "to_str_float"
	OpArrayToStrInt   Op = "array_to_str_int"
	OpArrayToStrFloat Op = "array_to_str_float"
	OpToInt           Op = "to_int"
	OpToFloat         Op = "to_float"
)

// Ops lists every operation in declaration order.
var Ops = []Op{
	OpToStrInt,
	OpToStrFloat,
	OpArrayToStrInt,
	OpArrayToStrFloat,
	OpToInt,
	OpToFloat,
}

// String returns the operation name.
func (o Op) String() string { return string(o) }

// ProducesText reports whether the operation returns formatted text.
func (o Op) ProducesText() bool {
	switch o {
	case OpToStrInt, OpToStrFloat, OpArrayToStrInt, OpArrayToStrFloat:
		return true
	}
	return false
}

// Valid reports whether o is one of the supported operations.
func (o Op) Valid() bool {
	for _, op := range Ops {
		if op == o {
			return true
		}
	}
	return false
}
