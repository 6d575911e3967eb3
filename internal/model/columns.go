package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrFieldNotWritable = errors.New("field is not writable")
	ErrNegativeValue    = errors.New("value must not be negative")
	ErrNotInEnum        = errors.New("value is not a member of the enumeration")
)

// Kind classifies a column's value type.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindDecimal
	KindEnum
	KindRefs
)

// Field keys. Coordinates, clipboard entries, CSV columns and the JSON API
// all address cells through these.
const (
	FieldItemCode        = "itemCode"
	FieldDescription     = "description"
	FieldSupplier        = "supplier"
	FieldHSCode          = "hsCode"
	FieldNotes           = "notes"
	FieldQuantity        = "quantity"
	FieldUnitPrice       = "unitPrice"
	FieldTotalPrice      = "totalPrice"
	FieldPaymentType     = "paymentType"
	FieldCarryingBasis   = "carryingBasis"
	FieldUnitWeight      = "unitWeight"
	FieldUnitCBM         = "unitCbm"
	FieldImageRefs       = "imageRefs"
	FieldEstimatedPrice  = "estimatedPrice"
	FieldPriceConfidence = "priceConfidence"
)

// Column describes one grid column: the same descriptor drives cell
// validation, CSV encoding and clipboard formatting.
type Column struct {
	Key      string
	Label    string
	Kind     Kind
	Options  []string
	Writable bool
}

// Columns is the ordered column set of the grid.
var Columns = []Column{
	{Key: FieldItemCode, Label: "Item Code", Kind: KindText, Writable: true},
	{Key: FieldDescription, Label: "Description", Kind: KindText, Writable: true},
	{Key: FieldSupplier, Label: "Supplier", Kind: KindText, Writable: true},
	{Key: FieldHSCode, Label: "HS Code", Kind: KindText, Writable: true},
	{Key: FieldQuantity, Label: "Quantity", Kind: KindInt, Writable: true},
	{Key: FieldUnitPrice, Label: "Unit Price", Kind: KindDecimal, Writable: true},
	{Key: FieldTotalPrice, Label: "Total Price", Kind: KindDecimal, Writable: false},
	{Key: FieldPaymentType, Label: "Payment Type", Kind: KindEnum, Options: PaymentTypes, Writable: true},
	{Key: FieldCarryingBasis, Label: "Carrying Basis", Kind: KindEnum, Options: CarryingBases, Writable: true},
	{Key: FieldUnitWeight, Label: "Unit Weight", Kind: KindDecimal, Writable: true},
	{Key: FieldUnitCBM, Label: "Unit CBM", Kind: KindDecimal, Writable: true},
	{Key: FieldNotes, Label: "Notes", Kind: KindText, Writable: true},
	{Key: FieldImageRefs, Label: "Images", Kind: KindRefs, Writable: true},
	{Key: FieldEstimatedPrice, Label: "Estimated Price", Kind: KindDecimal, Writable: false},
	{Key: FieldPriceConfidence, Label: "Price Confidence", Kind: KindInt, Writable: false},
}

var (
	columnsByKey   = map[string]Column{}
	columnsByLabel = map[string]Column{}
)

func init() {
	for _, c := range Columns {
		columnsByKey[c.Key] = c
		columnsByLabel[c.Label] = c
	}
}

func ColumnByKey(key string) (Column, bool) {
	c, ok := columnsByKey[key]
	return c, ok
}

func ColumnByLabel(label string) (Column, bool) {
	c, ok := columnsByLabel[label]
	return c, ok
}

// Parse converts raw cell text into the column's typed value. Numeric text
// that does not parse becomes zero — a deliberate default-to-zero policy,
// matching what order clerks expect from clearing a numeric cell — while
// negative numbers and unknown enum members are rejected outright.
func (c Column) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch c.Kind {
	case KindText:
		return raw, nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeValue, c.Key)
		}
		return n, nil
	case KindDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			f = 0
		}
		if f < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeValue, c.Key)
		}
		return f, nil
	case KindEnum:
		for _, opt := range c.Options {
			if raw == opt {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%w: %q for %s", ErrNotInEnum, raw, c.Key)
	case KindRefs:
		if raw == "" {
			return []string(nil), nil
		}
		return strings.Split(raw, ";"), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, c.Key)
}

// Format renders a typed field value back into cell text. It is the inverse
// of Parse for every writable column.
func (c Column) Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ";")
	case *float64:
		if val == nil {
			return ""
		}
		return strconv.FormatFloat(*val, 'f', -1, 64)
	case *int:
		if val == nil {
			return ""
		}
		return strconv.Itoa(*val)
	}
	return fmt.Sprintf("%v", v)
}
