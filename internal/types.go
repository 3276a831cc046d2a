package internal

import (
	"errors"
	"fmt"
)

type FieldKind string

const (
	CompanyName FieldKind = "company_name"
	JobTitle    FieldKind = "job_title"
)

func ParseFieldKind(value string) (FieldKind, error) {
	switch value {
	case "company", "company_name", "company-name":
		return CompanyName, nil
	case "job-title", "job_title", "jobtitle", "title":
		return JobTitle, nil
	default:
		return "", fmt.Errorf("unsupported field kind: %s", value)
	}
}

type FailurePolicy string

const (
	// FailFast aborts the whole run on the first normalization error.
	FailFast FailurePolicy = "fail-fast"
	// SkipRow leaves the derived value null and records a RowError.
	SkipRow FailurePolicy = "skip"
)

func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch value {
	case "", string(FailFast):
		return FailFast, nil
	case string(SkipRow):
		return SkipRow, nil
	default:
		return "", fmt.Errorf("unsupported failure policy: %s", value)
	}
}

type ProcessingOptions struct {
	DeduplicateByEmail    bool
	RequireSalutation     bool
	NormalizeCompanyNames bool
	NormalizeJobTitles    bool
}

type WarningCode string

const MissingColumn WarningCode = "MISSING_COLUMN"

type Step string

const (
	StepDeduplicate      Step = "deduplicate"
	StepSalutation       Step = "require_salutation"
	StepCleanCompanyName Step = "clean_company_name"
	StepCleanJobTitle    Step = "clean_job_title"
)

type Warning struct {
	Code    WarningCode
	Step    Step
	Column  string
	Message string
}

func MissingColumnWarning(step Step, column string) Warning {
	return Warning{
		Code:    MissingColumn,
		Step:    step,
		Column:  column,
		Message: fmt.Sprintf("Column '%s' not found.", column),
	}
}

type RowError struct {
	Row    int
	Column string
	Err    error
}

var (
	ErrExternalService = errors.New("external service error")
	ErrMalformedInput  = errors.New("malformed input")
)

type ExternalServiceError struct {
	Kind  FieldKind
	Input string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("normalize %s %q: %v", e.Kind, e.Input, e.Err)
}

func (e *ExternalServiceError) Unwrap() []error {
	return []error{ErrExternalService, e.Err}
}

type MalformedInputError struct {
	Line int
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}
