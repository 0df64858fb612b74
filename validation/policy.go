package validation

// Policy maps finding levels to fatality. The zero value treats only
// LevelError findings as fatal.
type Policy struct {
	TreatWarningsAsErrors         bool
	TreatMissingArrayIndexAsError bool
	TreatMissingValuesAsErrors    bool
}

// IsFatal reports whether the finding must abort the operation it belongs to.
func (p Policy) IsFatal(finding Error) bool {
	if finding.Kind == ArrayMissingIndex && p.TreatMissingArrayIndexAsError {
		return true
	}

	switch finding.Level {
	case LevelError:
		return true
	case LevelWarn:
		return p.TreatWarningsAsErrors
	case LevelMissingValue:
		return p.TreatMissingValuesAsErrors
	case LevelDebug:
		return false
	default:
		return false
	}
}

// Fatal returns the fatal findings in errs, in order.
func (p Policy) Fatal(errs []Error) []Error {
	var fatal []Error

	for _, finding := range errs {
		if p.IsFatal(finding) {
			fatal = append(fatal, finding)
		}
	}

	return fatal
}

// HasFatal reports whether any finding in errs is fatal.
func (p Policy) HasFatal(errs []Error) bool {
	for _, finding := range errs {
		if p.IsFatal(finding) {
			return true
		}
	}

	return false
}

// HasLevel reports whether any finding in errs has the given level.
func HasLevel(errs []Error, level Level) bool {
	for _, finding := range errs {
		if finding.Level == level {
			return true
		}
	}

	return false
}
