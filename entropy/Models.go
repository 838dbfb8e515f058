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
	paqmix "github.com/paqmix/paqmix-go"
)

const (
	_MATCH_MAX_LEN = 65534 // longest allowed match
)

// matchModel finds the longest context matching the current history (LZ
// like) and predicts the bits of the byte that followed the match.
type matchModel struct {
	t      []int32 // context hash -> last position
	mask   int
	h      int // hash of the last 7 bytes
	ptr    int // next byte of the match, if any
	length int // length of the match, or 0
	result int
	scm    *SmallStationaryContextMap
}

func newMatchModel(memory int) (*matchModel, error) {
	scm, err := NewSmallStationaryContextMap(0x20000)

	if err != nil {
		return nil, err
	}

	this := &matchModel{}
	this.t = make([]int32, memory)
	this.mask = memory - 1
	this.scm = scm
	return this, nil
}

// mix returns the current match length
func (this *matchModel) mix(m *Mixer, bc *bitContext) int {
	if bc.bpos == 0 {
		this.h = (this.h*997*8 + bc.back(1) + 1) & this.mask

		if this.length != 0 {
			this.length++
			this.ptr++
		} else { // find a match
			this.ptr = int(this.t[this.h])

			if this.ptr != 0 && bc.pos-this.ptr < len(bc.buf) {
				for this.length < _MATCH_MAX_LEN && bc.back(this.length+1) == bc.at(this.ptr-this.length-1) {
					this.length++
				}
			}
		}

		this.t[this.h] = int32(bc.pos)
		this.result = this.length
		this.scm.Set(uint32(bc.pos), 0)
	}

	if this.length > _MATCH_MAX_LEN {
		this.length = _MATCH_MAX_LEN
	}

	sgn := 0

	if this.length != 0 && bc.back(1) == bc.at(this.ptr-1) && bc.c0 == (bc.at(this.ptr)+256)>>uint(8-bc.bpos) {
		if (bc.at(this.ptr)>>uint(7-bc.bpos))&1 != 0 {
			sgn = 1
		} else {
			sgn = -1
		}
	} else {
		sgn = 0
		this.length = 0
	}

	m.Add(sgn * 4 * paqmix.Ilog(this.length))
	m.Add(sgn * 64 * paqmix.Min(this.length, 32))
	this.scm.Mix(m, bc.y, bc.c0, bc.bpos, bc.back(1))
	return this.result
}

// sparseModel models order 1-2 contexts with gaps, masked byte contexts
// and a rolling character class mask.
type sparseModel struct {
	cm   *ContextMap
	mask uint32
}

func newSparseModel(memory int) (*sparseModel, error) {
	cm, err := NewContextMap(memory, 48)

	if err != nil {
		return nil, err
	}

	return &sparseModel{cm: cm}, nil
}

func charClass(c int) uint32 {
	switch {
	case c == 0:
		return 0
	case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
		return 1
	case c >= '!' && c <= '/' || c >= ':' && c <= '@' || c >= '[' && c <= '`' || c >= '{' && c <= '~':
		return 2
	case c == ' ' || (c >= 0x09 && c <= 0x0D):
		return 3
	case c == 0xFF:
		return 4
	case c < 16:
		return 5
	case c < 64:
		return 6
	default:
		return 7
	}
}

func (this *sparseModel) mix(m *Mixer, bc *bitContext, seenbefore, howmany int) {
	if bc.bpos == 0 {
		cm := this.cm
		c4 := bc.c4
		cm.Set(c4&0x00F0F0F0, 0)
		cm.Set((c4&0xF0F0F0F0)+1, 0)
		cm.Set((c4&0x00F8F8F8)+2, 0)
		cm.Set((c4&0xF8F8F8F8)+3, 0)
		cm.Set((c4&0x00E0E0E0)+4, 0)
		cm.Set((c4&0xE0E0E0E0)+5, 0)
		cm.Set((c4&0x00F0F0FF)+6, 0)
		cm.Set(uint32(seenbefore), 0)
		cm.Set(uint32(howmany), 0)
		cm.Set(c4&0x00FF00FF, 0)
		cm.Set(c4&0xFF0000FF, 0)
		cm.Set(uint32(bc.back(1)|bc.back(5)<<8), 0)
		cm.Set(uint32(bc.back(1)|bc.back(6)<<8), 0)
		cm.Set(uint32(bc.back(3)|bc.back(6)<<8), 0)
		cm.Set(uint32(bc.back(4)|bc.back(8)<<8), 0)

		for i := 1; i < 8; i++ {
			cm.Set(uint32(bc.back(i+1)<<8|bc.back(i+2)), 0)
			cm.Set(uint32(bc.back(i+1)<<8|bc.back(i+3)), 0)
			cm.Set(uint32(seenbefore|bc.back(i)<<8), 0)
		}

		this.mask = this.mask<<3 | charClass(int(c4&0xFF))
		cm.Set(this.mask, 0)
		cm.Set(this.mask<<8|uint32(bc.back(1)), 0)
		cm.Set(this.mask<<17|uint32(bc.back(2)<<8|bc.back(3)), 0)
		cm.Set(this.mask&0x1FF|((c4&0xF0F0F0F0)<<9), 0)
	}

	this.cm.Mix(m, bc.y, bc.c0, bc.bpos, bc.back(1))
}

// distanceModel models the distances to the last occurrences of a few
// separator bytes.
type distanceModel struct {
	cm    *ContextMap
	pos00 int
	pos20 int
	posnl int
}

func newDistanceModel(memory int) (*distanceModel, error) {
	cm, err := NewContextMap(memory, 3)

	if err != nil {
		return nil, err
	}

	return &distanceModel{cm: cm}, nil
}

func (this *distanceModel) mix(m *Mixer, bc *bitContext) {
	if bc.bpos == 0 {
		c := int(bc.c4 & 0xFF)

		if c == 0x00 {
			this.pos00 = bc.pos
		}

		if c == 0x20 {
			this.pos20 = bc.pos
		}

		if c == 0xFF || c == '\r' || c == '\n' {
			this.posnl = bc.pos
		}

		this.cm.Set(uint32(paqmix.Min(bc.pos-this.pos00, 255)|c<<8), 0)
		this.cm.Set(uint32(paqmix.Min(bc.pos-this.pos20, 255)|c<<8), 0)
		this.cm.Set(uint32(paqmix.Min(bc.pos-this.posnl, 255)|(c<<8+234567)), 0)
	}

	this.cm.Mix(m, bc.y, bc.c0, bc.bpos, bc.back(1))
}

// indirectModel models the byte history that occurred within a 1 or 2
// byte context.
type indirectModel struct {
	cm *ContextMap
	t1 [256]uint32
	t2 [0x10000]uint16
}

func newIndirectModel(memory int) (*indirectModel, error) {
	cm, err := NewContextMap(memory, 6)

	if err != nil {
		return nil, err
	}

	return &indirectModel{cm: cm}, nil
}

func (this *indirectModel) mix(m *Mixer, bc *bitContext) {
	if bc.bpos == 0 {
		d := bc.c4 & 0xFFFF
		c := d & 255
		this.t1[d>>8] = this.t1[d>>8]<<8 | c
		this.t2[bc.c4>>8&0xFFFF] = this.t2[bc.c4>>8&0xFFFF]<<8 | uint16(c)
		t := c | this.t1[c]<<8
		this.cm.Set(t&0xFFFF, 0)
		this.cm.Set(t&0xFFFFFF, 0)
		this.cm.Set(t, 0)
		this.cm.Set(t&0xFF00, 0)
		t = d | uint32(this.t2[d])<<16
		this.cm.Set(t&0xFFFFFF, 0)
		this.cm.Set(t, 0)
	}

	this.cm.Mix(m, bc.y, bc.c0, bc.bpos, bc.back(1))
}

// picModel models a 1728 by 2376 2-color CCITT bitmap image, left to
// right scan, MSB first (216 bytes per row). The contexts are the pixels
// surrounding the predicted one, taken from the last 4 rows.
type picModel struct {
	r0, r1, r2, r3 uint32 // last 4 rows, bit 8 is over the current pixel
	t              []uint8
	cxt            [3]int
	sm             [3]*StateMap
}

func newPicModel() *picModel {
	this := &picModel{}
	this.t = make([]uint8, 0x10200)

	for i := range this.sm {
		this.sm[i] = NewStateMap()
	}

	return this
}

func (this *picModel) mix(m *Mixer, bc *bitContext) {
	// update the states selected for the previous bit
	for i := range this.cxt {
		this.t[this.cxt[i]] = nex(this.t[this.cxt[i]], bc.y)
	}

	// update the contexts
	y := uint32(bc.y)
	this.r0 += this.r0 + y
	this.r1 += this.r1 + uint32((bc.back(215)>>uint(7-bc.bpos))&1)
	this.r2 += this.r2 + uint32((bc.back(431)>>uint(7-bc.bpos))&1)
	this.r3 += this.r3 + uint32((bc.back(647)>>uint(7-bc.bpos))&1)
	this.cxt[0] = int(this.r0&0x7 | this.r1>>4&0x38 | this.r2>>3&0xC0)
	this.cxt[1] = 0x100 + int(this.r0&1|this.r1>>4&0x3E|this.r2>>2&0x40|this.r3>>1&0x80)
	this.cxt[2] = 0x200 + int(this.r0&0x3F^this.r1&0x3FFE^this.r2<<2&0x7F00^this.r3<<5&0xF800)

	// predict
	for i := range this.cxt {
		m.Add(paqmix.STRETCH[this.sm[i].P(bc.y, int(this.t[this.cxt[i]]))])
	}
}
