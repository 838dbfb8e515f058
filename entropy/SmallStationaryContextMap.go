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

// SmallStationaryContextMap is a direct lookup table of 16 bit
// probabilities for small stationary contexts. The context is looked up
// directly (high bits are discarded), the state is adjusted after each
// prediction.
type SmallStationaryContextMap struct {
	data []uint16
	cxt  int
	cp   int
	rate uint
}

// NewSmallStationaryContextMap creates a map using memory bytes (a power
// of 2). The context must be below memory/512.
func NewSmallStationaryContextMap(memory int) (*SmallStationaryContextMap, error) {
	if memory < 512 || paqmix.IsPowerOf2(memory) == false {
		return nil, fmt.Errorf("The memory size must be a power of 2 (at least 512), got %d", memory)
	}

	this := &SmallStationaryContextMap{}
	this.data = make([]uint16, memory/2)
	this.rate = 7

	for i := range this.data {
		this.data[i] = 32768
	}

	return this, nil
}

// Set selects the row for context cx
func (this *SmallStationaryContextMap) Set(cx uint32, c1 int) {
	this.cxt = int(cx) * 256 & (len(this.data) - 256)
}

// Mix trains the last cell with bit y, re-points to the cell for the
// current partial byte and adds its stretched probability to the mixer.
func (this *SmallStationaryContextMap) Mix(m *Mixer, y, c0, bpos, c1 int) int {
	v := int(this.data[this.cp])
	this.data[this.cp] = uint16(v + (((y << 16) - v + (1 << (this.rate - 1))) >> this.rate))
	this.cp = this.cxt + c0
	m.Add(paqmix.STRETCH[int(this.data[this.cp])>>4])
	return 0
}
