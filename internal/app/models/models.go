package models

// Option is a student track label
type Option string

// The four enumerated student options, in canonical display order
const (
	OptionGAMIX Option = "GAMIX"
	OptionSE    Option = "SE"
	OptionSIM   Option = "SIM"
	OptionNIDS  Option = "NIDS"
)

// Options returns the enumerated options in canonical order
func Options() []Option {
	return []Option{OptionGAMIX, OptionSE, OptionSIM, OptionNIDS}
}

// Valid reports whether o is one of the enumerated options
func (o Option) Valid() bool {
	switch o {
	case OptionGAMIX, OptionSE, OptionSIM, OptionNIDS:
		return true
	}
	return false
}

// String returns the wire value
func (o Option) String() string {
	return string(o)
}

// Resource names a remote collection
type Resource string

const (
	ResourceStudents     Resource = "students"
	ResourceContracts    Resource = "contracts"
	ResourceDepartments  Resource = "departments"
	ResourceTeams        Resource = "teams"
	ResourceUniversities Resource = "universities"
)

// Resources returns every remote collection in dashboard order
func Resources() []Resource {
	return []Resource{
		ResourceStudents,
		ResourceContracts,
		ResourceDepartments,
		ResourceTeams,
		ResourceUniversities,
	}
}
