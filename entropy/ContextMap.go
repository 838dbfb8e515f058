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

// ContextModel is the capability shared by every specialist predictor the
// mixer consumes: Set() declares the whole byte context before the first
// bit of each byte, Mix() adds the predictions for the current bit and
// returns an order hint.
// The bit context is passed as explicit arguments: y is the last coded
// bit, c0 the partial byte, bpos the bit position and c1 the last whole
// byte. The hint returned by Mix() counts the contexts seen before: the
// number of such contexts for a ContextMap, 0 or 1 for a RunContextMap,
// always 0 for a SmallStationaryContextMap.
type ContextModel interface {
	Set(cx uint32, c1 int)

	Mix(m *Mixer, y, c0, bpos, c1 int) int
}

var (
	_ ContextModel = (*ContextMap)(nil)
	_ ContextModel = (*RunContextMap)(nil)
	_ ContextModel = (*SmallStationaryContextMap)(nil)
)

// mix2 predicts to mixer m from bit history state s, using sm to map the
// state to a probability. It adds the stretched probability, the linear
// probability split and three features gated by the null count indicators.
// Returns 1 if the state has been seen, else 0.
func mix2(m *Mixer, s uint8, sm *StateMap, y int) int {
	p1 := sm.P(y, int(s))
	n0 := 0
	n1 := 0

	if nex(s, 2) == 0 {
		n0 = -1
	}

	if nex(s, 3) == 0 {
		n1 = -1
	}

	st := paqmix.STRETCH[p1] >> 2
	m.Add(st)
	p1 >>= 4
	p0 := 255 - p1
	m.Add(p1 - p0)
	m.Add(st * (n1 - n0))
	m.Add((p1 & n0) - (p0 & n1))
	m.Add((p1 & n1) - (p0 & n0))

	if s > 0 {
		return 1
	}

	return 0
}

// hashElement is a 64 byte hash bucket holding a chain of 7 slots plus a
// 2 element queue (packed into one byte) of the last slots accessed, for
// LRU replacement. Each slot has a 2 byte checksum and 7 bit history
// states indexed by the bits of the current byte seen so far:
// bh[.][0] after 0 bits, bh[.][1..2] after 1 bit, bh[.][3..6] after 2 bits.
// bh[.][0] doubles as the replacement priority; 0 marks an unused slot.
type hashElement struct {
	chk  [7]uint16
	last uint8
	bh   [7][7]uint8
}

// get finds the slot matching checksum ch. If none matches, the lowest
// priority slot outside the queue is reset and claimed, and the queue is
// emptied so that consecutive misses favor a LFU policy.
func (this *hashElement) get(ch uint16) []uint8 {
	if this.chk[this.last&15] == ch {
		return this.bh[this.last&15][:]
	}

	b := 0xFFFF
	bi := 0

	for i := 0; i < 7; i++ {
		if this.chk[i] == ch {
			this.last = this.last<<4 | uint8(i)
			return this.bh[i][:]
		}

		pri := int(this.bh[i][0])

		if int(this.last&15) != i && int(this.last>>4) != i && pri < b {
			b = pri
			bi = i
		}
	}

	this.last = 0xF0 | uint8(bi)
	this.chk[bi] = ch
	row := this.bh[bi][:]

	for j := range row {
		row[j] = 0
	}

	return row
}

// ContextMap maps large contexts to bit histories and predicts to a
// Mixer. It holds up to 'count' independent whole byte contexts sharing
// one table of 64 byte buckets. Buckets are selected by the context
// extended with 0, 2 or 5 bits of the current byte, so each modeled byte
// costs 3 bucket lookups per context with all other accesses in cache.
//
// Each byte aligned slot spends only 3 of its 7 history cells on states;
// the other 4 bytes hold a run model <count:7,d:1> <b1> <pending> <unused>
// where b1 is the last byte seen in the context, count its repeat count
// and d flags that other bytes have been seen too. As an admission
// optimization the two bucket lookups covering bits 2-7 of a byte are
// deferred until the context is seen a second time (<count,d> == <1,0>).
type ContextMap struct {
	c    int // max number of contexts
	t    []hashElement
	mask uint32
	cp   [][]uint8 // current bit history cell per context (nil if unseen)
	cp0  [][]uint8 // first cell of the 7 cell slot containing cp
	cxt  []uint32  // whole byte contexts (hashes)
	runp [][]uint8 // run model: count, value
	sm   []*StateMap
	cn   int // next context to set by Set()
	rnd  *randomGenerator
}

// NewContextMap creates a map using memory bytes (a power of 2) shared by
// 'count' contexts.
func NewContextMap(memory, count int) (*ContextMap, error) {
	if memory < 64 || paqmix.IsPowerOf2(memory) == false {
		return nil, fmt.Errorf("The memory size must be a power of 2 (at least 64), got %d", memory)
	}

	if count <= 0 {
		return nil, fmt.Errorf("The number of contexts must be positive, got %d", count)
	}

	this := &ContextMap{}
	this.c = count
	this.t = make([]hashElement, memory>>6)
	this.mask = uint32(memory>>6 - 1)
	this.cp = make([][]uint8, count)
	this.cp0 = make([][]uint8, count)
	this.cxt = make([]uint32, count)
	this.runp = make([][]uint8, count)
	this.sm = make([]*StateMap, count)
	this.rnd = newRandomGenerator()

	for i := 0; i < count; i++ {
		row := this.t[0].bh[0][:]
		this.cp0[i] = row
		this.cp[i] = row
		this.runp[i] = row[3:]
		this.sm[i] = NewStateMap()
	}

	return this, nil
}

// Set declares the next whole byte context. The value is permuted (not
// hashed) to spread the distribution over the index domain. Call up to
// 'count' times before the first bit of each byte.
func (this *ContextMap) Set(cx uint32, c1 int) {
	i := this.cn
	this.cn++
	cx = cx*987654323 + uint32(i)
	cx = cx<<16 | cx>>16
	this.cxt[i] = cx*123456791 + uint32(i)
}

// Mix updates the model with bit y and adds the predictions for the next
// bit to the mixer: one run model input and five bit history inputs per
// context. Returns the number of contexts that have been seen before.
func (this *ContextMap) Mix(m *Mixer, y, c0, bpos, c1 int) int {
	result := 0

	for i := 0; i < this.cn; i++ {
		// extend the bit history with y
		if this.cp[i] != nil {
			ns := nex(this.cp[i][0], y)

			// probabilistic decrement keeps high states rare
			if ns >= 204 && this.rnd.next()<<uint((452-int(ns))>>3) != 0 {
				ns -= 4
			}

			this.cp[i][0] = ns
		}

		// advance to the cell for the next bit
		if bpos > 1 && this.runp[i][0] == 0 {
			this.cp[i] = nil
		} else if bpos == 1 || bpos == 3 || bpos == 6 {
			this.cp[i] = this.cp0[i][1+(c0&1):]
		} else if bpos == 4 || bpos == 7 {
			this.cp[i] = this.cp0[i][3+(c0&3):]
		} else { // bits 0, 2 and 5 select a new bucket
			row := this.t[(this.cxt[i]+uint32(c0))&this.mask].get(uint16(this.cxt[i] >> 16))
			this.cp0[i] = row
			this.cp[i] = row

			if bpos == 0 {
				// second sighting: materialize the deferred histories
				// for bits 2-7 of the previous byte
				if row[3] == 2 {
					c := int(row[4]) + 256
					p := this.t[(this.cxt[i]+uint32(c>>6))&this.mask].get(uint16(this.cxt[i] >> 16))
					p[0] = uint8(1 + (c>>5)&1)
					p[1+(c>>5)&1] = uint8(1 + (c>>4)&1)
					p[3+(c>>4)&3] = uint8(1 + (c>>3)&1)
					p = this.t[(this.cxt[i]+uint32(c>>3))&this.mask].get(uint16(this.cxt[i] >> 16))
					p[0] = uint8(1 + (c>>2)&1)
					p[1+(c>>2)&1] = uint8(1 + (c>>1)&1)
					p[3+(c>>1)&3] = uint8(1 + c&1)
					row[6] = 0
				}

				// update the run count of the previous context
				if this.runp[i][0] == 0 { // new context
					this.runp[i][0] = 2
					this.runp[i][1] = uint8(c1)
				} else if int(this.runp[i][1]) != c1 { // different byte in context
					this.runp[i][0] = 1
					this.runp[i][1] = uint8(c1)
				} else if this.runp[i][0] < 254 { // same byte in context
					this.runp[i][0] += 2
				} else if this.runp[i][0] == 255 {
					this.runp[i][0] = 128
				}

				this.runp[i] = row[3:]
			}
		}

		// predict from the last byte seen in this context
		rc := int(this.runp[i][0]) // count*2, +1 if other bytes seen
		if (int(this.runp[i][1])+256)>>uint(8-bpos) == c0 {
			sgn := (int(this.runp[i][1])>>uint(7-bpos)&1)*2 - 1 // + for 1, - for 0
			m.Add(sgn * (paqmix.Ilog(rc+1) << uint(2+(^rc&1))))
		} else {
			m.Add(0)
		}

		// predict from the bit history
		s := uint8(0)

		if this.cp[i] != nil {
			s = this.cp[i][0]
		}

		result += mix2(m, s, this.sm[i], y)
	}

	if bpos == 7 {
		this.cn = 0
	}

	return result
}
