package enum

// OptionType call, put
type OptionType uint8

const (
	_option_type_beg OptionType = iota
	OptionCall
	OptionPut
	_option_type_end
)

func (o OptionType) IsAvailable() bool {
	return o > _option_type_beg && o < _option_type_end
}

func (o OptionType) String() string {
	switch o {
	case OptionCall:
		return "Call"
	case OptionPut:
		return "Put"
	default:
		return ""
	}
}

// OptionTypeFromCode maps the trailing symbol code, "C" is a call and anything else a put.
func OptionTypeFromCode(code string) OptionType {
	if code == "C" {
		return OptionCall
	}

	return OptionPut
}
