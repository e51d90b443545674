package transform

import (
	"fmt"
	"strings"

	"imgproc-server-go/internal/platform/errors"
)

// Operation is one of the fixed set of supported transformations. The set is
// closed: adding an operation means adding a constant here, a case in the
// engine dispatch, and an entry in All.
type Operation string

const (
	OpBlur           Operation = "blur"
	OpSharpen        Operation = "sharpen"
	OpEdgeDetect     Operation = "edge_detect"
	OpGrayscale      Operation = "grayscale"
	OpEnhance        Operation = "enhance"
	OpRotate         Operation = "rotate"
	OpNoiseReduction Operation = "noise_reduction"
)

// All lists every supported operation in a stable order.
func All() []Operation {
	return []Operation{
		OpBlur,
		OpSharpen,
		OpEdgeDetect,
		OpGrayscale,
		OpEnhance,
		OpRotate,
		OpNoiseReduction,
	}
}

func (o Operation) String() string {
	return string(o)
}

// Parse maps a request-supplied name onto the closed operation set.
// Unrecognized names are rejected, never silently defaulted.
func Parse(name string) (Operation, error) {
	candidate := Operation(strings.ToLower(strings.TrimSpace(name)))
	for _, op := range All() {
		if candidate == op {
			return op, nil
		}
	}
	return "", errors.New(errors.KindUnsupportedOp, "transform:parse",
		fmt.Sprintf("unsupported operation: %q (supported: %s)", name, Names()))
}

// Names returns the supported operation names as a comma-separated list.
func Names() string {
	ops := All()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}
