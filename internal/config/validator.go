package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/macropadd/macropadd/internal/action"
)

// Validation error kinds. Individual findings wrap one of these sentinels,
// so callers can classify with errors.Is on the joined result.
var (
	ErrMissingBaseLayer   = errors.New("base layer is required")
	ErrMissingLayerName   = errors.New("layer name is required")
	ErrUnknownKey         = errors.New("unknown key")
	ErrUnknownActionShape = errors.New("action matches no recognized shape")
	ErrInvalidDelay       = errors.New("delayMs must be >= 0")
	ErrInvalidCount       = errors.New("count must be >= 0")
	ErrNestingTooDeep     = fmt.Errorf("action nesting exceeds %d levels", action.MaxDepth)
	ErrNameTooLong        = fmt.Errorf("action name exceeds %d characters", action.MaxNameLen)
)

// Validate checks the whole document and reports every finding at once.
// A document that fails validation must never be activated.
func Validate(doc *Document) error {
	var errs []error

	if _, ok := doc.Layers[BaseLayerID]; !ok {
		errs = append(errs, fmt.Errorf("config: %w", ErrMissingBaseLayer))
	}

	for _, id := range doc.Order {
		ls := doc.Layers[id]
		if ls.Name == "" {
			errs = append(errs, fmt.Errorf("layer %q: %w", id, ErrMissingLayerName))
		}
		for c, as := range ls.Bindings {
			loc := fmt.Sprintf("layer %q: %s", id, c)
			validateAction(as, loc, 1, &errs)
		}
	}

	return errors.Join(errs...)
}

func validateAction(a *ActionSpec, loc string, depth int, errs *[]error) {
	if depth > action.MaxDepth {
		*errs = append(*errs, fmt.Errorf("%s: %w", loc, ErrNestingTooDeep))
		return
	}
	if a == nil || a.shapeCount() != 1 {
		*errs = append(*errs, fmt.Errorf("%s: %w", loc, ErrUnknownActionShape))
		return
	}
	if utf8.RuneCountInString(a.Name) > action.MaxNameLen {
		*errs = append(*errs, fmt.Errorf("%s: name %q: %w", loc, a.Name, ErrNameTooLong))
	}
	switch {
	case a.Sequence != nil:
		if a.Sequence.DelayMs < 0 {
			*errs = append(*errs, fmt.Errorf("%s: sequence: %w", loc, ErrInvalidDelay))
		}
		for i, step := range a.Sequence.Steps {
			validateAction(step, fmt.Sprintf("%s: sequence step %d", loc, i), depth+1, errs)
		}
	case a.Repeat != nil:
		if a.Repeat.DelayMs < 0 {
			*errs = append(*errs, fmt.Errorf("%s: repeat: %w", loc, ErrInvalidDelay))
		}
		if a.Repeat.Count < 0 {
			*errs = append(*errs, fmt.Errorf("%s: repeat: %w", loc, ErrInvalidCount))
		}
		validateAction(a.Repeat.Action, loc+": repeat action", depth+1, errs)
	}
}
