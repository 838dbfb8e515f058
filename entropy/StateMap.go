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

// StateMap maps a nonstationary counter state (0-255) to a probability
// in the [0..4095] range. After each mapping the entry for the previously
// requested state is adjusted toward the observed bit: the update always
// lags one call behind the read.
type StateMap struct {
	ctx  int
	data [256]uint16 // state -> probability * 64K
}

// NewStateMap creates a StateMap bootstrapped from the approximate counts
// of the state table. A state with a null count on one side gets the other
// count inflated to reflect the higher confidence.
func NewStateMap() *StateMap {
	this := &StateMap{}

	for i := range this.data {
		n0 := int(nex(uint8(i), 2))
		n1 := int(nex(uint8(i), 3))

		if n0 == 0 {
			n1 *= 64
		}

		if n1 == 0 {
			n0 *= 64
		}

		this.data[i] = uint16(65536 * (n1 + 1) / (n0 + n1 + 2))
	}

	return this
}

// P first trains the entry selected by the previous call with bit y, then
// returns the probability for state cx in the [0..4095] range.
func (this *StateMap) P(y, cx int) int {
	v := int(this.data[this.ctx])
	this.data[this.ctx] = uint16(v + (((y << 16) - v + 128) >> 8))
	this.ctx = cx
	return int(this.data[cx]) >> 4
}
