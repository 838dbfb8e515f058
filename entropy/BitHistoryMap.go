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

// bitHistoryMap maps a 32 bit context hash to a slot of elemSize bytes:
// a 2 byte checksum (stored little endian), a priority byte and
// elemSize-3 payload bytes. Slots are grouped 8 per 64 byte line and kept
// in most-recently-used order within the group; a priority byte of 0 marks
// an unused slot. On a full group the lower priority of the two last slots
// is replaced.
type bitHistoryMap struct {
	data     []uint8
	tmp      []uint8 // slot being moved to the front
	elemSize int
	mask     uint32 // number of slots - 1
}

func newBitHistoryMap(n, elemSize int) (*bitHistoryMap, error) {
	if paqmix.IsPowerOf2(n) == false {
		return nil, fmt.Errorf("The size must be a power of 2, got %d", n)
	}

	if elemSize < 3 {
		return nil, fmt.Errorf("The element size must be at least 3, got %d", elemSize)
	}

	this := &bitHistoryMap{}
	this.data = make([]uint8, n*elemSize)
	this.tmp = make([]uint8, elemSize)
	this.elemSize = elemSize
	this.mask = uint32(n - 1)
	return this, nil
}

// get returns the slot matching the hash h, claiming an empty or
// replacing a stale slot if needed. The returned slice starts at the
// checksum high byte (slot byte 1); the priority byte and the payload
// follow. The found slot is moved to the front of its group.
func (this *bitHistoryMap) get(h uint32) []uint8 {
	chk0 := uint8(h>>16 ^ h)
	chk1 := uint8((h>>16 ^ h) >> 8)
	i := int(h * 8 & this.mask) // multiple of 8: the 8 slots probed stay in range
	b := this.elemSize
	var j int

	for j = 0; j < 8; j++ {
		p := this.data[(i+j)*b:]

		if p[2] == 0 {
			p[0] = chk0
			p[1] = chk1
		}

		if p[0] == chk0 && p[1] == chk1 {
			break // found
		}
	}

	if j == 0 {
		return this.data[i*b+1 : (i+1)*b] // already in front
	}

	if j == 8 { // no match, no empty: replace the lower priority of the last 2
		j--

		for k := range this.tmp {
			this.tmp[k] = 0
		}

		this.tmp[0] = chk0
		this.tmp[1] = chk1

		if this.data[(i+7)*b+2] > this.data[(i+6)*b+2] {
			j--
		}
	} else {
		copy(this.tmp, this.data[(i+j)*b:(i+j+1)*b])
	}

	// shift preceding slots up, put the accessed slot in front
	copy(this.data[(i+1)*b:(i+1+j)*b], this.data[i*b:(i+j)*b])
	copy(this.data[i*b:], this.tmp)
	return this.data[i*b+1 : (i+1)*b]
}
