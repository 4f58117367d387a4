package grader

// FaultKind discriminates the failure variants a grading request can end in.
// Every kind is terminal for the current request; none are retried internally.
type FaultKind string

const (
	FaultValidation   FaultKind = "validation"
	FaultNotFound     FaultKind = "not_found"
	FaultPrecondition FaultKind = "precondition"
	FaultExecution    FaultKind = "execution"
)

// Fault is a typed, user-facing failure. Message is the exact text returned
// to the caller.
type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string {
	return f.Message
}

func validationFault(msg string) *Fault {
	return &Fault{Kind: FaultValidation, Message: msg}
}

func notFoundFault(msg string) *Fault {
	return &Fault{Kind: FaultNotFound, Message: msg}
}

func preconditionFault(msg string) *Fault {
	return &Fault{Kind: FaultPrecondition, Message: msg}
}

// executionFault converts a staging, runner or upload error into the
// "<ErrorKind>: <message>" form the caller sees. The originating error is
// never allowed to propagate as an opaque crash.
func executionFault(kind string, err error) *Fault {
	return &Fault{Kind: FaultExecution, Message: kind + ": " + err.Error()}
}
