package types

// Known step payload shapes. Step data is stored per top-level key and each key is
// replaced wholesale on update, so clients always send the complete object for a key.
// Unknown keys are carried through untouched.

type PersonalInfo struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Address     string `json:"address,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

type AcademicInfo struct {
	Institution string `json:"institution"`
	Level       string `json:"level"`
	Program     string `json:"program,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

const (
	StepKeyPersonal = "personal"
	StepKeyAcademic = "academic"
)
