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

package extend

// ungappedXDrop walks h and v one diagonal column at a time, tracking a
// running score (+1 match, -1 mismatch) and its running maximum, and
// stops the moment the score falls more than xDrop below that maximum —
// adapted from a plain pointer-matrix traceback specialized to one row
// of diagonal-only moves, since no gaps are considered on this fast
// path. Returns the number of columns consumed before the drop (or
// before either sequence runs out).
func ungappedXDrop(h, v []byte, xDrop int) int {
	n := len(h)
	if len(v) < n {
		n = len(v)
	}

	score, best, bestIdx := 0, 0, 0
	for i := 0; i < n; i++ {
		if h[i] == v[i] {
			score++
		} else {
			score--
		}
		if score > best {
			best, bestIdx = score, i+1
		}
		if best-score > xDrop {
			return bestIdx
		}
	}
	return bestIdx
}
