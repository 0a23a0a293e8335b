// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package stellarerr defines the error taxonomy the core returns:
// InvalidOption, ParseError, CorruptIndex, IOError, OutOfMemory. CLI code
// calls checkError at the boundary; core packages only ever return one of
// these.
package stellarerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that branch on error category
// (e.g. the orchestrator treats CorruptIndex and IOError as fatal but
// lets per-query pathology through the disable mechanism instead).
type Kind int

const (
	KindInvalidOption Kind = iota
	KindParseError
	KindCorruptIndex
	KindIOError
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindInvalidOption:
		return "InvalidOption"
	case KindParseError:
		return "ParseError"
	case KindCorruptIndex:
		return "CorruptIndex"
	case KindIOError:
		return "IOError"
	case KindOutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind and an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, stellarerr.ErrCorruptIndex) and siblings by
// comparing Kind, not identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is comparisons against a bare Kind, without
// needing a message.
var (
	ErrInvalidOption = &Error{Kind: KindInvalidOption}
	ErrParseError    = &Error{Kind: KindParseError}
	ErrCorruptIndex  = &Error{Kind: KindCorruptIndex}
	ErrIOError       = &Error{Kind: KindIOError}
	ErrOutOfMemory   = &Error{Kind: KindOutOfMemory}
)

// InvalidOption builds an InvalidOption error, e.g. ε outside (0, 0.25]
// or q <= 0.
func InvalidOption(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidOption, Msg: fmt.Sprintf(format, args...)}
}

// ParseError builds a region/FASTA ParseError.
func ParseError(format string, args ...interface{}) error {
	return &Error{Kind: KindParseError, Msg: fmt.Sprintf(format, args...)}
}

// CorruptIndex builds a CorruptIndex error, fatal at the CLI boundary.
func CorruptIndex(format string, args ...interface{}) error {
	return &Error{Kind: KindCorruptIndex, Msg: fmt.Sprintf(format, args...)}
}

// IOError wraps err as an IOError. Returns nil if err is nil, so it is
// safe to use as `return stellarerr.IOError(w.Flush())`.
func IOError(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindIOError, Msg: "I/O failure", Err: err}
}

// OutOfMemory builds an OutOfMemory error.
func OutOfMemory(format string, args ...interface{}) error {
	return &Error{Kind: KindOutOfMemory, Msg: fmt.Sprintf(format, args...)}
}
