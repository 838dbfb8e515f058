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

const (
	// BUFFER_SIZE is the default capacity of the rotating input buffer
	BUFFER_SIZE = 1 << 24
)

// bitContext is the rolling view of the stream coded so far, shared by all
// models of one predictor. Exactly one instance exists per stream and it is
// owned by the Predictor.
type bitContext struct {
	buf  []uint8 // rotating input buffer, power of 2 size
	mask int
	pos  int    // number of input bytes in buf (not wrapped)
	c0   int    // last 0-7 bits of the partial byte with a leading 1 bit (1-255)
	c4   uint32 // last 4 whole bytes, packed, last byte in bits 0-7
	bpos int    // bits in c0 (0 to 7)
	y    int    // last bit, 0 or 1
}

func newBitContext(bufferSize int) (*bitContext, error) {
	if paqmix.IsPowerOf2(bufferSize) == false {
		return nil, fmt.Errorf("The buffer size must be a power of 2, got %d", bufferSize)
	}

	this := &bitContext{}
	this.buf = make([]uint8, bufferSize)
	this.mask = bufferSize - 1
	this.c0 = 1
	return this, nil
}

// at returns the byte at absolute position i with wrap
func (this *bitContext) at(i int) int {
	return int(this.buf[i&this.mask])
}

// back returns the i'th byte back from pos (i > 0)
func (this *bitContext) back(i int) int {
	return int(this.buf[(this.pos-i)&this.mask])
}

// fold registers the last coded bit: it extends c0 and, on a byte
// boundary, stores the completed byte and packs it into c4
func (this *bitContext) fold(bit int) {
	this.y = bit
	this.c0 += this.c0 + bit

	if this.c0 >= 256 {
		this.buf[this.pos&this.mask] = uint8(this.c0)
		this.pos++
		this.c4 = (this.c4 << 8) + uint32(this.c0-256)
		this.c0 = 1
	}

	this.bpos = (this.bpos + 1) & 7
}
