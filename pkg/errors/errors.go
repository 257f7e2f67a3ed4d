//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package errors

type InternalError struct {
	msg  string // message associated to the error
	code int    // error code
}

// AnalysisError is the error returned by the analysis packages. It carries one of
// the internal error categories and, when available, the underlying error.
type AnalysisError struct {
	internal InternalError
	details  error
}

// ErrNotFound means that an input file could not be found
var ErrNotFound = InternalError{"Not found", -1}

// ErrInvalidHeader means we could not get the header of a log file
var ErrInvalidHeader = InternalError{"Invalid header", -2}

// ErrFatal means that an unexpected error occured and the analysis cannot continue
var ErrFatal = InternalError{"Fatal error", -3}

// ErrNoData means that the input was readable but no usable data could be extracted
var ErrNoData = InternalError{"No data", -4}

func (i InternalError) Error() string {
	return i.msg
}

// Code returns the numeric code of the category
func (i InternalError) Code() int {
	return i.code
}

func New(i InternalError, err error) *AnalysisError {
	e := new(AnalysisError)
	e.details = err
	e.internal = i
	return e
}

func (e *AnalysisError) Error() string {
	if e.details == nil {
		return e.internal.msg
	}
	return e.internal.msg + ": " + e.details.Error()
}

// Is reports whether the error belongs to the category i. It also makes the
// categories usable as targets of the standard errors.Is.
func (e *AnalysisError) Is(target error) bool {
	i, ok := target.(InternalError)
	if !ok {
		return false
	}
	return e.internal == i
}

func (e *AnalysisError) Unwrap() error {
	return e.details
}
