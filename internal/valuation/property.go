package valuation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PropertyType enumerates the recognized property categories. Values are the
// localized labels used by the lookup tables and the API payloads.
type PropertyType string

const (
	PropertyResidential PropertyType = "住宅"
	PropertyCommercial  PropertyType = "商铺"
	PropertyOffice      PropertyType = "写字楼"
	PropertyIndustrial  PropertyType = "厂房"
	PropertyVilla       PropertyType = "别墅"
)

// PropertyTypes lists every recognized property type.
func PropertyTypes() []PropertyType {
	return []PropertyType{PropertyResidential, PropertyCommercial, PropertyOffice, PropertyIndustrial, PropertyVilla}
}

// Valid reports whether the property type is one of the recognized values.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertyResidential, PropertyCommercial, PropertyOffice, PropertyIndustrial, PropertyVilla:
		return true
	}
	return false
}

// DecorationLevel enumerates the five decoration grades.
type DecorationLevel string

const (
	DecorationBare   DecorationLevel = "毛坯"
	DecorationSimple DecorationLevel = "简装"
	DecorationMedium DecorationLevel = "中装"
	DecorationFine   DecorationLevel = "精装"
	DecorationLuxury DecorationLevel = "豪装"
)

// Valid reports whether the decoration level is one of the recognized values.
func (d DecorationLevel) Valid() bool {
	switch d {
	case DecorationBare, DecorationSimple, DecorationMedium, DecorationFine, DecorationLuxury:
		return true
	}
	return false
}

// PropertyInfo describes the subject property of a valuation. All valuation
// entry points validate it first; a PropertyInfo that passes Validate is safe
// for every method.
type PropertyInfo struct {
	Area             float64         `json:"area" validate:"required,gt=0"`
	City             string          `json:"city" validate:"required"`
	District         string          `json:"district" validate:"required"`
	PropertyType     PropertyType    `json:"property_type" validate:"required"`
	DecorationLevel  DecorationLevel `json:"decoration_level" validate:"required"`
	Orientation      string          `json:"orientation"`
	ConstructionYear int             `json:"construction_year" validate:"required"`
	Floor            int             `json:"floor" validate:"required,gt=0"`
	TotalFloors      int             `json:"total_floors" validate:"required,gt=0"`
	LotRatio         float64         `json:"lot_ratio" validate:"gte=0"`
	GreenRatio       float64         `json:"green_ratio" validate:"gte=0,lte=100"`
	NearbyFacilities []string        `json:"nearby_facilities"`
}

// Clone returns a deep copy of the property. Sensitivity sweeps mutate the
// copy, never the original.
func (p *PropertyInfo) Clone() *PropertyInfo {
	clone := *p
	if p.NearbyFacilities != nil {
		clone.NearbyFacilities = make([]string, len(p.NearbyFacilities))
		copy(clone.NearbyFacilities, p.NearbyFacilities)
	}
	return &clone
}

// Violation describes a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every rule the property violated, not just the
// first one found.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Field + ": " + v.Message
	}
	return "property validation failed: " + strings.Join(msgs, "; ")
}

var propertyValidate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProperty checks the property against every rule and returns a
// ValidationError listing all violations, or nil if the property is valid.
// The construction-year upper bound moves with the clock supplied by the
// caller so tests stay deterministic.
func ValidateProperty(p *PropertyInfo, now time.Time) error {
	var violations []Violation

	add := func(field, message string) {
		violations = append(violations, Violation{Field: field, Message: message})
	}

	if err := propertyValidate.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				add(jsonTagName(fe.StructField()), tagMessage(fe.Tag(), fe.Param()))
			}
		} else {
			add("property", err.Error())
		}
	}

	if math.IsNaN(p.Area) || math.IsInf(p.Area, 0) {
		add("area", "must be a finite number")
	}
	if math.IsNaN(p.LotRatio) || math.IsInf(p.LotRatio, 0) {
		add("lot_ratio", "must be a finite number")
	}
	if math.IsNaN(p.GreenRatio) || math.IsInf(p.GreenRatio, 0) {
		add("green_ratio", "must be a finite number")
	}

	if p.PropertyType != "" && !p.PropertyType.Valid() {
		add("property_type", fmt.Sprintf("unrecognized property type %q", p.PropertyType))
	}
	if p.DecorationLevel != "" && !p.DecorationLevel.Valid() {
		add("decoration_level", fmt.Sprintf("unrecognized decoration level %q", p.DecorationLevel))
	}

	if p.ConstructionYear != 0 {
		maxYear := now.Year() + 1
		if p.ConstructionYear < 1900 || p.ConstructionYear > maxYear {
			add("construction_year", fmt.Sprintf("must be between 1900 and %d", maxYear))
		}
	}
	if p.Floor > 0 && p.TotalFloors > 0 && p.Floor > p.TotalFloors {
		add("floor", fmt.Sprintf("floor %d exceeds total floors %d", p.Floor, p.TotalFloors))
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// jsonTagName maps PropertyInfo struct field names to their JSON names so
// violations line up with the wire format.
func jsonTagName(structField string) string {
	switch structField {
	case "Area":
		return "area"
	case "City":
		return "city"
	case "District":
		return "district"
	case "PropertyType":
		return "property_type"
	case "DecorationLevel":
		return "decoration_level"
	case "ConstructionYear":
		return "construction_year"
	case "Floor":
		return "floor"
	case "TotalFloors":
		return "total_floors"
	case "LotRatio":
		return "lot_ratio"
	case "GreenRatio":
		return "green_ratio"
	default:
		return structField
	}
}

func tagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	default:
		return "failed rule " + tag
	}
}
