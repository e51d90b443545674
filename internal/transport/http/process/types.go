package process

import (
	domainimage "imgproc-server-go/internal/domain/image"
	"imgproc-server-go/internal/domain/transform"
)

// Request carries a parsed and validated transform request.
type Request struct {
	Operation transform.Operation
	Payload   *domainimage.Output
}

// StatusData describes the processing surface for the GET status check.
type StatusData struct {
	Operations []string            `json:"operations"`
	Metrics    domainimage.Snapshot `json:"metrics"`
}

// ErrorData names the error kind inside a failure envelope so clients can
// distinguish the rejection reasons programmatically.
type ErrorData struct {
	Kind string `json:"kind"`
}
