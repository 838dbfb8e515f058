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

// Mixer combines the predictions of several models with m neural networks
// of n inputs each, of which up to s may be selected per bit. If s > 1 the
// outputs of the selected networks are combined by a second stage
// Mixer(s, 1, 1). Weights are trained online by gradient descent on the
// coding cost of the last prediction.
//
// Per bit protocol:
//
//	Update(y) trains the network with the last coded bit, then resets the
//	  input and context counts.
//	Add(x) inputs one prediction, nominally a stretched probability.
//	Set(cx, range) selects cx as one of 'range' networks; up to s calls,
//	  the total of the ranges must not exceed m.
//	Get() returns the combined prediction scaled 12 bits.
type Mixer struct {
	n    int // max inputs, padded to a multiple of 8
	m    int // max contexts
	s    int // max context sets
	tx   []int16
	wx   []int16
	cxt  []int
	ncxt int // number of contexts (0 to s)
	base int // offset of next context
	nx   int // number of inputs in tx (0 to n)
	pr   []int
	y    int
	mp   *Mixer // second stage, combines the s outputs
}

// NewMixer creates a mixer with n inputs, m contexts and s context sets.
// All weights start at w (+-32K).
func NewMixer(n, m, s, w int) (*Mixer, error) {
	if n <= 0 || m <= 0 || s <= 0 {
		return nil, fmt.Errorf("Invalid mixer geometry: %d inputs, %d contexts, %d sets", n, m, s)
	}

	this := &Mixer{}
	this.n = (n + 7) & -8
	this.m = m
	this.s = s
	this.tx = make([]int16, this.n)
	this.wx = make([]int16, this.n*m)
	this.cxt = make([]int, s)
	this.pr = make([]int, s)

	for i := range this.wx {
		this.wx[i] = int16(w)
	}

	for i := range this.pr {
		this.pr[i] = 2048
	}

	if s > 1 {
		var err error

		if this.mp, err = NewMixer(s, 1, 1, 0x7FFF); err != nil {
			return nil, err
		}
	}

	return this, nil
}

// Update adjusts the weights to minimize the coding cost of the last
// prediction. It must be called before the first Add() of the new bit.
func (this *Mixer) Update(y int) {
	this.y = y

	for i := 0; i < this.ncxt; i++ {
		err := ((y << 12) - this.pr[i]) * 7
		this.train(this.cxt[i]*this.n, err)
	}

	this.nx = 0
	this.base = 0
	this.ncxt = 0
}

// train updates the selected weight row: w[i] += tx[i]*err, rounded and
// clamped to 16 bits. err is scaled 16 bits.
func (this *Mixer) train(offset, err int) {
	for i := 0; i < this.nx; i++ {
		wt := int(this.wx[offset+i]) + (((int(this.tx[i])*err*2)>>16)+1)>>1

		if wt < -32768 {
			wt = -32768
		} else if wt > 32767 {
			wt = 32767
		}

		this.wx[offset+i] = int16(wt)
	}
}

// Add inputs a prediction, positive to predict a 1 bit, negative for 0,
// nominally +-256 to +-2K. Call up to n times per bit.
func (this *Mixer) Add(x int) {
	this.tx[this.nx] = int16(x)
	this.nx++
}

// Set selects cx as one of 'rng' neural networks to use. 0 <= cx < rng.
func (this *Mixer) Set(cx, rng int) {
	this.cxt[this.ncxt] = this.base + cx
	this.ncxt++
	this.base += rng
}

// dotProduct returns the dot product of the inputs with one weight row,
// scaled down by 8 bits. nx must be a multiple of 8.
func (this *Mixer) dotProduct(offset int) int {
	sum := 0

	for i := 0; i < this.nx; i += 2 {
		sum += (int(this.tx[i])*int(this.wx[offset+i]) + int(this.tx[i+1])*int(this.wx[offset+i+1])) >> 8
	}

	return sum
}

// Get returns the prediction that the next bit is 1 as a 12 bit number
func (this *Mixer) Get() int {
	for this.nx&7 != 0 {
		this.tx[this.nx] = 0 // pad
		this.nx++
	}

	if this.mp != nil { // combine outputs
		this.mp.Update(this.y)

		for i := 0; i < this.ncxt; i++ {
			this.pr[i] = paqmix.Squash(this.dotProduct(this.cxt[i]*this.n) >> 5)
			this.mp.Add(paqmix.STRETCH[this.pr[i]])
		}

		this.mp.Set(0, 1)
		return this.mp.Get()
	}

	// single context set
	this.pr[0] = paqmix.Squash(this.dotProduct(this.cxt[0]*this.n) >> 8)
	return this.pr[0]
}
