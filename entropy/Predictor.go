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

// Filetype is the tag of the optional block framing. A block starts with
// the tag byte followed by a 4 byte big endian payload size.
type Filetype int

const (
	DEFAULT Filetype = iota
	JPEG
	EXE
	TEXT
)

const (
	_DEFAULT_LEVEL = 5 // default compression level (0 to 9)
)

var _ paqmix.Predictor = (*Predictor)(nil)

// Predictor is a bitwise context mixing predictor. An ensemble of context
// models writes its predictions into a logistic mixer whose output is
// refined by a chain of adaptive probability maps. The ensemble combines
// order 0-6, 8 and 14 n-gram models over one shared hash table, three run
// length models (orders 7, 10 and 12), a bitmap scanline model and, at
// higher levels, match, sparse,
// distance and indirect models.
//
// Exactly one logical instance exists per stream and must be driven by
// one goroutine; independent instances never share state.
type Predictor struct {
	pr       int // next predicted value (0-4095)
	mem      int
	level    uint
	bc       *bitContext
	cxt      [16]uint32 // order 0-15 context hashes
	cm       *ContextMap
	rcm7     *RunContextMap
	rcm9     *RunContextMap
	rcm10    *RunContextMap
	m        *Mixer
	pic      *picModel
	match    *matchModel // these four are only active when level >= 4
	sparse   *sparseModel
	distance *distanceModel
	indirect *indirectModel
	filetype Filetype
	size     int // bytes remaining in block
	a        *AdaptiveProbMap
	a1, a2   *AdaptiveProbMap
	a3, a4   *AdaptiveProbMap
	a5, a6   *AdaptiveProbMap
}

// NewPredictor creates a predictor. The optional ctx map may provide a
// "level" key (uint in [0..9], default 5) scaling the model memory:
// each level doubles the footprint.
func NewPredictor(ctx *map[string]any) (*Predictor, error) {
	level := uint(_DEFAULT_LEVEL)

	if ctx != nil {
		if val, containsKey := (*ctx)["level"]; containsKey {
			level = val.(uint)
		}
	}

	if level > 9 {
		return nil, fmt.Errorf("The level must be in [0..9], got %d", level)
	}

	this := &Predictor{}
	this.level = level
	this.mem = 0x10000 << level
	this.pr = 2048

	var err error

	if this.bc, err = newBitContext(BUFFER_SIZE); err != nil {
		return nil, err
	}

	if this.cm, err = NewContextMap(this.mem*32, 9); err != nil {
		return nil, err
	}

	if this.rcm7, err = NewRunContextMap(this.mem); err != nil {
		return nil, err
	}

	if this.rcm9, err = NewRunContextMap(this.mem); err != nil {
		return nil, err
	}

	if this.rcm10, err = NewRunContextMap(this.mem); err != nil {
		return nil, err
	}

	if this.m, err = NewMixer(800, 3088, 7, 128); err != nil {
		return nil, err
	}

	this.pic = newPicModel()

	if level >= 4 {
		if this.match, err = newMatchModel(this.mem); err != nil {
			return nil, err
		}

		if this.sparse, err = newSparseModel(this.mem * 2); err != nil {
			return nil, err
		}

		if this.distance, err = newDistanceModel(this.mem); err != nil {
			return nil, err
		}

		if this.indirect, err = newIndirectModel(this.mem); err != nil {
			return nil, err
		}
	}

	if this.a, err = NewAdaptiveProbMap(256, 7); err != nil {
		return nil, err
	}

	apms := []**AdaptiveProbMap{&this.a1, &this.a2, &this.a3, &this.a4, &this.a5, &this.a6}

	for _, apm := range apms {
		if *apm, err = NewAdaptiveProbMap(0x10000, 7); err != nil {
			return nil, err
		}
	}

	return this, nil
}

// contextModel2 mixes all context models and returns the prediction
func (this *Predictor) contextModel2() int {
	bc := this.bc
	m := this.m

	// parse the block framing lazily out of the coded stream
	if bc.bpos == 0 {
		this.size--

		if this.size == -1 {
			this.filetype = Filetype(bc.back(1))
		}

		if this.size == -5 {
			this.size = bc.back(4)<<24 | bc.back(3)<<16 | bc.back(2)<<8 | bc.back(1)

			if this.filetype == EXE {
				this.size += 8
			}
		}
	}

	m.Update(bc.y)
	m.Add(256)

	ismatch := 0

	if this.match != nil {
		ismatch = paqmix.Ilog(this.match.mix(m, bc))
	}

	if bc.bpos == 0 {
		// update order 1-15 context hashes (order 0 stays constant)
		for i := 15; i > 0; i-- {
			this.cxt[i] = this.cxt[i-1]*257 + (bc.c4 & 255) + 1
		}

		c1 := bc.back(1)

		for i := 0; i < 7; i++ {
			this.cm.Set(this.cxt[i], c1)
		}

		this.rcm7.Set(this.cxt[7], c1)
		this.cm.Set(this.cxt[8], c1)
		this.rcm9.Set(this.cxt[10], c1)
		this.rcm10.Set(this.cxt[12], c1)
		this.cm.Set(this.cxt[14], c1)
	}

	c1 := bc.back(1)
	order := this.cm.Mix(m, bc.y, bc.c0, bc.bpos, c1)
	this.rcm7.Mix(m, bc.y, bc.c0, bc.bpos, c1)
	this.rcm9.Mix(m, bc.y, bc.c0, bc.bpos, c1)
	this.rcm10.Mix(m, bc.y, bc.c0, bc.bpos, c1)

	if this.sparse != nil {
		this.sparse.mix(m, bc, ismatch, order)
	}

	if this.distance != nil {
		this.distance.mix(m, bc)
	}

	if this.indirect != nil {
		this.indirect.mix(m, bc)
	}

	this.pic.mix(m, bc)

	order -= 2

	if order < 0 {
		order = 0
	}

	c2 := bc.back(2)
	c3 := bc.back(3)
	exe := 0

	if this.filetype == EXE {
		exe = 1
	}

	eq := 0

	if c1 == c2 {
		eq = 1
	}

	m.Set(c1+8, 264)
	m.Set(bc.c0, 256)
	m.Set(order+8*int(bc.c4>>5&7)+64*eq+128*exe, 256)
	m.Set(c2, 256)
	m.Set(c3, 256)

	var c int

	if bc.bpos != 0 {
		c = bc.c0 << uint(8-bc.bpos)

		if bc.bpos == 1 {
			c += c3 / 2
		}

		c = paqmix.Min(bc.bpos, 5)*256 + c1/32 + 8*(c2/32) + (c & 192)
	} else {
		c = c3/128 + int(bc.c4>>31)*2 + 4*(c2/64) + (c1 & 240)
	}

	m.Set(c, 1536)
	return m.Get()
}

// Update folds the last coded bit into the rolling context, reruns the
// context models and refines their mixed prediction with the adaptive
// probability maps.
func (this *Predictor) Update(bit byte) {
	y := int(bit)
	bc := this.bc
	bc.fold(y)

	pr0 := this.contextModel2()

	c0 := bc.c0
	b1 := uint32(bc.back(1))
	b2 := uint32(bc.back(2))
	b3 := uint32(bc.back(3))

	pr := this.a.Get(y, pr0, c0)

	pr1 := this.a1.Get(y, pr0, c0+256*int(b1))
	pr2 := this.a2.Get(y, pr0, c0^int(paqmix.Hash2(b1, b2)&0xFFFF))
	pr3 := this.a3.Get(y, pr0, c0^int(paqmix.Hash3(b1, b2, b3)&0xFFFF))
	pr0 = (pr0 + pr1 + pr2 + pr3 + 2) >> 2

	pr1 = this.a4.Get(y, pr, c0+256*int(b1))
	pr2 = this.a5.Get(y, pr, c0^int(paqmix.Hash2(b1, b2)&0xFFFF))
	pr3 = this.a6.Get(y, pr, c0^int(paqmix.Hash3(b1, b2, b3)&0xFFFF))
	pr = (pr + pr1 + pr2 + pr3 + 2) >> 2

	this.pr = (pr + pr0 + 1) >> 1
}

// Get returns the value representing the probability of the next bit
// being 1 in the [0..4095] range.
func (this *Predictor) Get() int {
	return this.pr
}
