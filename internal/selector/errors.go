package selector

import (
	"errors"
	"fmt"

	"github.com/Makepad-fr/spin/internal/model"
)

// NoCandidatesMessage is what the user sees when a spin finds nothing to pick.
const NoCandidatesMessage = "No valid numbers available! Please check your inputs."

// ErrNoCandidates is returned when the range minus the exclusions is empty.
var ErrNoCandidates = errors.New("no valid numbers available")

// NoCandidatesError carries the inputs that produced an empty pool.
type NoCandidatesError struct {
	Range    model.Range
	Excluded int
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("%s in [%d, %d] with %d excluded",
		ErrNoCandidates, e.Range.Min, e.Range.Max, e.Excluded)
}

func (e *NoCandidatesError) Is(target error) bool { return target == ErrNoCandidates }
