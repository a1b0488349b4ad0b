package acquire

import (
	"github.com/samir-abis/facefusion/internal/fsys"
	"github.com/samir-abis/facefusion/internal/integrity"
)

// Strategy selects how a path proves its validity.
type Strategy int

const (
	// ExistenceOnly treats presence on disk as validity. Companion hash
	// artifacts carry no further proof, so this is all they get.
	ExistenceOnly Strategy = iota
	// ContentHash requires the file content to match its companion hash
	// record.
	ContentHash
)

// String renders the textual representation of a Strategy.
func (s Strategy) String() string {
	switch s {
	case ExistenceOnly:
		return "existence"
	case ContentHash:
		return "content-hash"
	default:
		return "unknown"
	}
}

// ValidationReport partitions candidate paths into valid and invalid. The
// relative order within each half matches the input.
type ValidationReport struct {
	Valid   []string
	Invalid []string
}

// AllValid reports whether no path failed validation.
func (r ValidationReport) AllValid() bool {
	return len(r.Invalid) == 0
}

// Validator partitions paths under a validation strategy.
type Validator struct {
	fs      fsys.FileSystem
	checker integrity.Checker
}

// ValidatorOption customises Validator construction.
type ValidatorOption func(*Validator)

// WithValidatorFileSystem overrides the filesystem implementation.
func WithValidatorFileSystem(fs fsys.FileSystem) ValidatorOption {
	return func(v *Validator) {
		v.fs = fs
	}
}

// WithValidatorChecker overrides the content-hash checker.
func WithValidatorChecker(checker integrity.Checker) ValidatorOption {
	return func(v *Validator) {
		v.checker = checker
	}
}

// NewValidator constructs a Validator backed by the real filesystem unless
// options say otherwise.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	if v.fs == nil {
		v.fs = fsys.OS{}
	}
	if v.checker == nil {
		v.checker = integrity.NewFileChecker(v.fs)
	}
	return v
}

// Partition splits paths into valid and invalid under the given strategy.
// Every input path lands in exactly one half.
func (v *Validator) Partition(paths []string, strategy Strategy) ValidationReport {
	var report ValidationReport
	for _, path := range paths {
		if v.isValid(path, strategy) {
			report.Valid = append(report.Valid, path)
		} else {
			report.Invalid = append(report.Invalid, path)
		}
	}
	return report
}

func (v *Validator) isValid(path string, strategy Strategy) bool {
	switch strategy {
	case ExistenceOnly:
		return v.fs.Exists(path)
	case ContentHash:
		return v.checker.IsValid(path)
	default:
		return false
	}
}
