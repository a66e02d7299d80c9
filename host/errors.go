package host

import "fmt"

// ImportError reports a rejected or duplicate host import. It only occurs
// during setup and is fatal to executor construction; the first registration
// of a name is never silently overwritten.
type ImportError struct {
	Namespace string
	Name      string
	Err       error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("failed import %s.%s: %v", e.Namespace, e.Name, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// InstantiationError wraps any failure while creating a guest instance.
type InstantiationError struct {
	Err error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to create a module instance: %v", e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }
