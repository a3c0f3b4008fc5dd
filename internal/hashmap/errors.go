package hashmap

import "errors"

// ContractError represents a violated precondition of a map or iterator operation.
// The map stays usable after any of these errors.
type ContractError struct {
	Wrapping error
}

func (err *ContractError) Error() string {
	return err.Wrapping.Error()
}

func (err *ContractError) Unwrap() error {
	return err.Wrapping
}

var (
	ErrInvalidArgument      = &ContractError{Wrapping: errors.New("invalid argument")}
	ErrNoMoreElements       = &ContractError{Wrapping: errors.New("the iterator has no more elements")}
	ErrIllegalIteratorState = &ContractError{Wrapping: errors.New("there is no element to remove (next has not been called since the last removal)")}
)
