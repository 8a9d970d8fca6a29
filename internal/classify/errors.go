package classify

import (
	"errors"
	"fmt"

	"github.com/brandscan/brandscan/internal/model"
)

// ErrInvalidInput is returned when the input candidate lists violate the
// renderer contract (nil input, unknown enum values, negative geometry).
// Callers can detect it with errors.Is. Ordinary missing signals (empty
// lists, unparseable color strings) never produce this error; they
// degrade to defaults instead.
var ErrInvalidInput = errors.New("invalid page signals")

// validateSignals checks the input shape before classification.
//
// Design decision: We fail fast on contract violations rather than
// silently computing nonsense because a malformed shape means the
// renderer is broken, not that the page lacked signal. The checks cover
// structure only; semantic noise (weird colors, huge areas) is the
// engine's job to absorb.
func validateSignals(signals *model.PageSignals) error {
	if signals == nil {
		return fmt.Errorf("%w: signals must not be nil", ErrInvalidInput)
	}

	for i, c := range signals.Colors {
		if !c.Category.Valid() {
			return fmt.Errorf("%w: color candidate %d has unknown category %q", ErrInvalidInput, i, c.Category)
		}
		if c.Area < 0 {
			return fmt.Errorf("%w: color candidate %d has negative area %v", ErrInvalidInput, i, c.Area)
		}
		if c.Count < 0 {
			return fmt.Errorf("%w: color candidate %d has negative count %d", ErrInvalidInput, i, c.Count)
		}
	}

	for i, f := range signals.Fonts {
		if !f.Role.Valid() {
			return fmt.Errorf("%w: font usage %d has unknown role %q", ErrInvalidInput, i, f.Role)
		}
	}

	for i, l := range signals.Logos {
		switch l.Kind {
		case model.LogoKindImage, model.LogoKindSVG, model.LogoKindFavicon:
		default:
			return fmt.Errorf("%w: logo candidate %d has unknown kind %q", ErrInvalidInput, i, l.Kind)
		}
		switch l.Format {
		case model.FormatSVG, model.FormatPNG, model.FormatOther:
		default:
			return fmt.Errorf("%w: logo candidate %d has unknown format %q", ErrInvalidInput, i, l.Format)
		}
		if l.Width < 0 || l.Height < 0 {
			return fmt.Errorf("%w: logo candidate %d has negative dimensions", ErrInvalidInput, i)
		}
		if l.Src == "" {
			return fmt.Errorf("%w: logo candidate %d has empty src", ErrInvalidInput, i)
		}
	}

	return nil
}
