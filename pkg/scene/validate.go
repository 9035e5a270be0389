package scene

import "fmt"

// Severity distinguishes blocking errors from advisory warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// ValidationError represents a validation failure on a part or cabinet.
type ValidationError struct {
	PartID    PartID
	CabinetID CabinetID
	Message   string
	Severity  Severity
}

func (e ValidationError) Error() string {
	context := ""
	if e.PartID != "" {
		context = fmt.Sprintf(" (part: %s)", e.PartID)
	}
	if e.CabinetID != "" {
		context = fmt.Sprintf(" (cabinet: %s)", e.CabinetID)
	}
	return e.Message + context
}

// Validate runs all store checks: structural (membership references,
// exclusive ownership, back-reference agreement) then geometric
// (positive dimensions).
func (s *Store) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, s.validateMembership()...)
	errs = append(errs, s.validateDimensions()...)
	return errs
}

// validateMembership checks structural invariants: every member id
// resolves, no part is claimed by two cabinets, and each member's weak
// back-reference agrees with the owning cabinet.
func (s *Store) validateMembership() []ValidationError {
	var errs []ValidationError
	owner := make(map[PartID]CabinetID)

	for _, cid := range s.cabinetOrder {
		c := s.cabinets[cid]
		for _, pid := range c.Members {
			p, ok := s.parts[pid]
			if !ok {
				errs = append(errs, ValidationError{
					CabinetID: cid,
					Message:   fmt.Sprintf("member %q not found", pid),
					Severity:  SeverityError,
				})
				continue
			}
			if prev, claimed := owner[pid]; claimed {
				errs = append(errs, ValidationError{
					PartID:   pid,
					Message:  fmt.Sprintf("owned by both cabinet %q and %q", prev, cid),
					Severity: SeverityError,
				})
				continue
			}
			owner[pid] = cid
			if p.Cabinet != cid {
				errs = append(errs, ValidationError{
					PartID:   pid,
					Message:  fmt.Sprintf("back-reference %q disagrees with owner %q", p.Cabinet, cid),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateDimensions checks that every part has positive dimensions.
func (s *Store) validateDimensions() []ValidationError {
	var errs []ValidationError
	for _, pid := range s.partOrder {
		p := s.parts[pid]
		for i := 0; i < 3; i++ {
			if p.Dimensions[i] <= 0 {
				errs = append(errs, ValidationError{
					PartID:   pid,
					Message:  fmt.Sprintf("dimension %d is %.4f, must be positive", i, p.Dimensions[i]),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}
