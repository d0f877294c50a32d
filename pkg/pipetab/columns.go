package pipetab

import (
	"fmt"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/logging"
)

// MissingPolicy governs what happens when requested columns are absent
// from a table: fail, warn and proceed, or proceed silently.
type MissingPolicy string

const (
	MissingRaise  MissingPolicy = "raise"
	MissingWarn   MissingPolicy = "warn"
	MissingIgnore MissingPolicy = "ignore"
)

// Validate checks the policy value; the empty string defaults to raise.
func (p MissingPolicy) Validate() error {
	switch p {
	case "", MissingRaise, MissingWarn, MissingIgnore:
		return nil
	default:
		return fmt.Errorf("unknown missing-column policy %q", p)
	}
}

// ColumnSpec selects columns by name: the requested ordered sequence, an
// optional exclusion set, and the policy applied to requested-but-absent
// names. An empty Columns list means every present column (minus
// exclusions).
type ColumnSpec struct {
	Columns   []string      `mapstructure:"columns"`
	Exclude   []string      `mapstructure:"exclude"`
	OnMissing MissingPolicy `mapstructure:"on_missing"`
}

// Resolve computes the effective column set against the columns actually
// present: (requested ∖ excluded) ∩ present, in requested order. The
// missing remainder is handled per policy; under raise it fails with a
// ColumnNotFoundError before any table is touched. op names the stage for
// diagnostics.
func (s ColumnSpec) Resolve(op string, present []string) ([]string, error) {
	if err := s.OnMissing.Validate(); err != nil {
		return nil, err
	}
	requested := s.Columns
	if len(requested) == 0 {
		requested = present
	}
	excluded := make(map[string]struct{}, len(s.Exclude))
	for _, c := range s.Exclude {
		excluded[c] = struct{}{}
	}
	have := make(map[string]struct{}, len(present))
	for _, c := range present {
		have[c] = struct{}{}
	}

	var effective []string
	var missing []string
	seenMissing := make(map[string]struct{})
	for _, c := range requested {
		if _, skip := excluded[c]; skip {
			continue
		}
		if _, ok := have[c]; ok {
			effective = append(effective, c)
			continue
		}
		if _, dup := seenMissing[c]; !dup {
			seenMissing[c] = struct{}{}
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return effective, nil
	}

	switch s.OnMissing {
	case MissingWarn:
		logging.L.Warnf("%s: %s", op, errs.MissingColumnsMessage(missing))
	case MissingIgnore:
	default: // raise
		return nil, errs.NewColumnNotFound(op, missing)
	}
	return effective, nil
}

// CheckExists applies the symmetric three-way policy to names an operation
// is about to create that already exist in present. It returns the subset
// safe to create.
func CheckExists(op string, policy MissingPolicy, creating, present []string) ([]string, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(present))
	for _, c := range present {
		have[c] = struct{}{}
	}
	var safe, colliding []string
	for _, c := range creating {
		if _, ok := have[c]; ok {
			colliding = append(colliding, c)
		} else {
			safe = append(safe, c)
		}
	}
	if len(colliding) == 0 {
		return safe, nil
	}
	switch policy {
	case MissingWarn:
		logging.L.Warnf("%s: %d existing column(s) skipped: %v", op, len(colliding), colliding)
	case MissingIgnore:
	default: // raise
		return nil, errs.NewColumnExists(op, colliding)
	}
	return safe, nil
}
