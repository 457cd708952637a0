package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnrecognizedFormat indicates that no known statement dialect matched the
// uploaded file. The whole upload is rejected before any persistent state is
// created.
var ErrUnrecognizedFormat = errors.New("could not detect bank format; supported formats: Amex CSV, HSBC CSV, Monzo CSV, Starling CSV")

// ErrEmptyStatement indicates that a recognized dialect produced zero
// parseable rows; the upload is rejected.
var ErrEmptyStatement = errors.New("no transactions found in file")
