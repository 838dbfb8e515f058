/*
Copyright 2011-2017 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import (
	"fmt"

	paqmix "github.com/paqmix/paqmix-go"
)

// AdaptiveProbMap maps a probability and a context into a new probability
// that the next bit will be 1, by interpolation over 33 knots in the
// logistic domain. After each guess the two anchors of the previous
// interpolation are nudged toward the observed bit.
type AdaptiveProbMap struct {
	index int // last prob, context
	rate  uint
	data  []uint16 // [n][33]: prob, context -> prob
}

// NewAdaptiveProbMap creates a map with n contexts using 66*n bytes of
// memory. rate determines the learning speed (smaller is faster).
func NewAdaptiveProbMap(n int, rate uint) (*AdaptiveProbMap, error) {
	if n <= 0 {
		return nil, fmt.Errorf("The number of contexts must be positive, got %d", n)
	}

	if rate == 0 || rate >= 32 {
		return nil, fmt.Errorf("The rate must be in [1..31], got %d", rate)
	}

	this := &AdaptiveProbMap{}
	this.rate = rate
	this.data = make([]uint16, n*33)

	for j := 0; j <= 32; j++ {
		this.data[j] = uint16(paqmix.Squash((j-16)<<7) << 4)
	}

	for i := 1; i < n; i++ {
		copy(this.data[i*33:], this.data[0:33])
	}

	return this, nil
}

// Get returns the adjusted probability for pr in context ctx, training the
// previous anchors with bit y. pr and the result are scaled 12 bits.
func (this *AdaptiveProbMap) Get(y, pr, ctx int) int {
	g := (y << 16) + (y << this.rate) - y - y
	this.data[this.index] += uint16((g - int(this.data[this.index])) >> this.rate)
	this.data[this.index+1] += uint16((g - int(this.data[this.index+1])) >> this.rate)

	d := paqmix.STRETCH[pr]
	w := d & 127 // interpolation weight (33 points)
	this.index = ((d + 2048) >> 7) + 33*ctx
	return (int(this.data[this.index])*(128-w) + int(this.data[this.index+1])*w) >> 11
}
