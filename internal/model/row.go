package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Payment terms for a line item.
const (
	PaymentFOB = "FOB"
	PaymentCIF = "CIF"
	PaymentCFR = "CFR"
	PaymentEXW = "EXW"
	PaymentDDP = "DDP"
)

// Carrying basis for a line item.
const (
	CarryingSea        = "SEA"
	CarryingAir        = "AIR"
	CarryingRoad       = "ROAD"
	CarryingRail       = "RAIL"
	CarryingExpress    = "EXPRESS"
	CarryingMultimodal = "MULTIMODAL"
)

var PaymentTypes = []string{PaymentFOB, PaymentCIF, PaymentCFR, PaymentEXW, PaymentDDP}

var CarryingBases = []string{
	CarryingSea, CarryingAir, CarryingRoad, CarryingRail, CarryingExpress, CarryingMultimodal,
}

// Row is one order line item. TotalPrice is derived from Quantity and
// UnitPrice and is never written directly; EstimatedPrice and
// PriceConfidence are set only by the estimation result merge.
type Row struct {
	ID              string   `json:"id"`
	ItemCode        string   `json:"itemCode"`
	Description     string   `json:"description"`
	Supplier        string   `json:"supplier"`
	HSCode          string   `json:"hsCode"`
	Notes           string   `json:"notes"`
	Quantity        int      `json:"quantity"`
	UnitPrice       float64  `json:"unitPrice"`
	TotalPrice      float64  `json:"totalPrice"`
	PaymentType     string   `json:"paymentType"`
	CarryingBasis   string   `json:"carryingBasis"`
	UnitWeight      float64  `json:"unitWeight"`
	UnitCBM         float64  `json:"unitCbm"`
	ImageRefs       []string `json:"imageRefs,omitempty"`
	EstimatedPrice  *float64 `json:"estimatedPrice,omitempty"`
	PriceConfidence *int     `json:"priceConfidence,omitempty"`
}

// NewRow returns a row with default field values and a fresh identity.
func NewRow() Row {
	return Row{
		ID:            uuid.NewString(),
		Quantity:      1,
		UnitPrice:     0,
		TotalPrice:    0,
		PaymentType:   PaymentFOB,
		CarryingBasis: CarryingSea,
	}
}

// Clone returns a copy that shares no mutable state with the original.
func (r Row) Clone() Row {
	out := r
	if r.ImageRefs != nil {
		out.ImageRefs = append([]string(nil), r.ImageRefs...)
	}
	if r.EstimatedPrice != nil {
		v := *r.EstimatedPrice
		out.EstimatedPrice = &v
	}
	if r.PriceConfidence != nil {
		v := *r.PriceConfidence
		out.PriceConfidence = &v
	}
	return out
}

// Recompute refreshes the derived total.
func (r *Row) Recompute() {
	r.TotalPrice = float64(r.Quantity) * r.UnitPrice
}

// Validate reports the problems that block saving the row.
func (r Row) Validate() []string {
	var problems []string
	if r.ItemCode == "" {
		problems = append(problems, "item code is required")
	}
	if r.Description == "" {
		problems = append(problems, "description is required")
	}
	if r.Quantity < 1 {
		problems = append(problems, "quantity must be a positive integer")
	}
	if r.UnitPrice < 0 {
		problems = append(problems, "unit price must not be negative")
	}
	return problems
}

// Field returns the current value of the named field.
func (r Row) Field(key string) (any, bool) {
	switch key {
	case FieldItemCode:
		return r.ItemCode, true
	case FieldDescription:
		return r.Description, true
	case FieldSupplier:
		return r.Supplier, true
	case FieldHSCode:
		return r.HSCode, true
	case FieldNotes:
		return r.Notes, true
	case FieldQuantity:
		return r.Quantity, true
	case FieldUnitPrice:
		return r.UnitPrice, true
	case FieldTotalPrice:
		return r.TotalPrice, true
	case FieldPaymentType:
		return r.PaymentType, true
	case FieldCarryingBasis:
		return r.CarryingBasis, true
	case FieldUnitWeight:
		return r.UnitWeight, true
	case FieldUnitCBM:
		return r.UnitCBM, true
	case FieldImageRefs:
		return r.ImageRefs, true
	case FieldEstimatedPrice:
		return r.EstimatedPrice, true
	case FieldPriceConfidence:
		return r.PriceConfidence, true
	}
	return nil, false
}

// Apply writes a value already parsed by the field's column descriptor.
// Derived and merge-only fields are rejected.
func (r *Row) Apply(key string, v any) error {
	col, ok := ColumnByKey(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if !col.Writable {
		return fmt.Errorf("%w: %s", ErrFieldNotWritable, key)
	}
	switch key {
	case FieldItemCode:
		r.ItemCode = v.(string)
	case FieldDescription:
		r.Description = v.(string)
	case FieldSupplier:
		r.Supplier = v.(string)
	case FieldHSCode:
		r.HSCode = v.(string)
	case FieldNotes:
		r.Notes = v.(string)
	case FieldQuantity:
		r.Quantity = v.(int)
	case FieldUnitPrice:
		r.UnitPrice = v.(float64)
	case FieldPaymentType:
		r.PaymentType = v.(string)
	case FieldCarryingBasis:
		r.CarryingBasis = v.(string)
	case FieldUnitWeight:
		r.UnitWeight = v.(float64)
	case FieldUnitCBM:
		r.UnitCBM = v.(float64)
	case FieldImageRefs:
		r.ImageRefs = v.([]string)
	}
	return nil
}
