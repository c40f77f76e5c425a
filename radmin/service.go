package radmin

import (
	"context"
	"fmt"
)

// Status is the completion status of a directory-service call.
type Status struct {
	SAFRC   int32 `json:"safRc"`
	RACFRC  int32 `json:"racfRc"`
	RACFRsn int32 `json:"racfRsn"`
}

// OK reports whether the call succeeded.
func (s Status) OK() bool {
	return s == Status{}
}

func (s Status) String() string {
	return fmt.Sprintf("SAF rc %d, RACF rc %d, RACF reason %d", s.SAFRC, s.RACFRC, s.RACFRsn)
}

// StatusNotFound is the status returned when the requested profile does not
// exist.
var StatusNotFound = Status{SAFRC: 4, RACFRC: 4, RACFRsn: 4}

// Result is the outcome of a directory-service call. Record is set when the
// call succeeded and returns data.
type Result struct {
	Status Status
	Record []byte
}

// Service is the directory service.
type Service interface {
	// Call invokes a function with an encoded parameter list.
	Call(ctx context.Context, code FunctionCode, parms []byte) (Result, error)
}
