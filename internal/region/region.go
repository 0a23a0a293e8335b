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

// Package region implements region syntax parsing and the
// genomic-region value type.
package region

import (
	"fmt"
	"strconv"
	"strings"
)

// Unset is the sentinel value for an unresolved field, matching the
// source's UINT_MAX sentinel.
const Unset uint32 = 1<<32 - 1

// ParseError reports a malformed region string.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "GenomicRegion: " + e.Msg }

// Region is the genomic-region model: a contig name plus an optional
// half-open [BeginPos, EndPos) span. SeqID is left at -1 unless a
// caller later resolves the name against a loaded database.
type Region struct {
	SeqName  string
	SeqID    int64 // -1 unless resolved
	BeginPos uint32
	EndPos   uint32
}

// Parse parses NAME, NAME:START, or NAME:START-END. START/END are
// 1-based in the input; commas inside numbers are ignored. Output uses
// 0-based half-open [BeginPos, EndPos). Empty fields stay at Unset.
func Parse(s string) (Region, error) {
	r := Region{SeqID: -1, BeginPos: Unset, EndPos: Unset}

	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		r.SeqName = s
		return r, nil
	}
	r.SeqName = s[:colon]
	span := s[colon+1:]

	dash := strings.IndexByte(span, '-')
	var startStr, endStr string
	if dash < 0 {
		startStr = span
	} else {
		startStr = span[:dash]
		endStr = span[dash+1:]
	}

	if startStr != "" {
		start, err := parseDigitGroup(startStr)
		if err != nil {
			return Region{}, &ParseError{Msg: fmt.Sprintf("invalid start position: %s", startStr)}
		}
		if start < 1 {
			return Region{}, &ParseError{Msg: "Begin position less than 1"}
		}
		r.BeginPos = uint32(start - 1)
	}
	if endStr != "" {
		end, err := parseDigitGroup(endStr)
		if err != nil {
			return Region{}, &ParseError{Msg: fmt.Sprintf("invalid end position: %s", endStr)}
		}
		if end < 1 {
			return Region{}, &ParseError{Msg: "End position less than 1"}
		}
		r.EndPos = uint32(end)
	}
	return r, nil
}

// parseDigitGroup parses an integer, ignoring any commas used as digit
// group separators (e.g. "1,500" -> 1500).
func parseDigitGroup(s string) (int64, error) {
	if strings.ContainsRune(s, ',') {
		s = strings.ReplaceAll(s, ",", "")
	}
	return strconv.ParseInt(s, 10, 64)
}

// Format renders a Region back to canonical NAME[:START[-END]] form
// (without thousands separators), the inverse of Parse used by the
// round-trip property test.
func Format(r Region) string {
	if r.BeginPos == Unset && r.EndPos == Unset {
		return r.SeqName
	}
	var b strings.Builder
	b.WriteString(r.SeqName)
	b.WriteByte(':')
	if r.BeginPos != Unset {
		b.WriteString(strconv.FormatUint(uint64(r.BeginPos)+1, 10))
	} else {
		b.WriteString("1")
	}
	if r.EndPos != Unset {
		b.WriteByte('-')
		b.WriteString(strconv.FormatUint(uint64(r.EndPos), 10))
	}
	return b.String()
}
