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

// RunContextMap maps a context to the next byte seen in it and a repeat
// count up to 255. The context should be a hash.
type RunContextMap struct {
	t  *bitHistoryMap
	cp []uint8 // count, value
}

// NewRunContextMap creates a map using memory bytes (a power of 2)
func NewRunContextMap(memory int) (*RunContextMap, error) {
	t, err := newBitHistoryMap(memory/4, 4)

	if err != nil {
		return nil, err
	}

	this := &RunContextMap{}
	this.t = t
	this.cp = t.get(0)[1:]
	return this, nil
}

// Set extends the run of the previous context with the last whole byte
// c1, then selects the slot for the new context cx.
func (this *RunContextMap) Set(cx uint32, c1 int) {
	if this.cp[0] == 0 || int(this.cp[1]) != c1 {
		this.cp[0] = 1
		this.cp[1] = uint8(c1)
	} else if this.cp[0] < 255 {
		this.cp[0]++
	}

	this.cp = this.t.get(cx)[1:]
}

// Mix adds the run prediction for the current bit: when the byte expected
// by the run agrees with the bits of c0 seen so far, the strength grows
// with the logarithm of the run length. Returns 1 if a run is recorded.
func (this *RunContextMap) Mix(m *Mixer, y, c0, bpos, c1 int) int {
	if (int(this.cp[1])+256)>>uint(8-bpos) == c0 {
		sgn := (int(this.cp[1])>>uint(7-bpos)&1)*2 - 1
		m.Add(sgn * paqmix.Ilog(int(this.cp[0])+1) * 8)
	} else {
		m.Add(0)
	}

	if this.cp[0] != 0 {
		return 1
	}

	return 0
}
