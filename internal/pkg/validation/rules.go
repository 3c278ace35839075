package validation

// Validation rule bounds
var (
	// Semester policy bounds
	SemesterMin = 1
	SemesterMax = 12

	// Grade scale (German style, lower is better)
	GradeMin = 1.0
	GradeMax = 5.0

	// Course name max length
	NameMaxLength = 200
)

// Numeric validation
type NumericValidation struct {
	Value  int
	Min    int
	Max    int
	hasMin bool
	hasMax bool
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	v.hasMin = true
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	v.hasMax = true
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.hasMin && v.Value < v.Min {
		return false
	}
	if v.hasMax && v.Value > v.Max {
		return false
	}
	return true
}

// FloatValidation checks an inclusive float range
type FloatValidation struct {
	Value float64
	Min   float64
	Max   float64
}

// NewFloatValidation creates a new inclusive range validation
func NewFloatValidation(value, min, max float64) *FloatValidation {
	return &FloatValidation{Value: value, Min: min, Max: max}
}

// Validate performs validation
func (v *FloatValidation) Validate() bool {
	return v.Value >= v.Min && v.Value <= v.Max
}

// ValidSemester reports whether s is inside the semester policy range.
func ValidSemester(s int) bool {
	return NewNumericValidation(s).WithMin(SemesterMin).WithMax(SemesterMax).Validate()
}

// ValidGrade reports whether g is on the grade scale.
func ValidGrade(g float64) bool {
	return NewFloatValidation(g, GradeMin, GradeMax).Validate()
}

// NonNegative reports whether n is zero or positive.
func NonNegative(n int) bool {
	return NewNumericValidation(n).WithMin(0).Validate()
}
