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
	"testing"
)

func TestStateTransitions(t *testing.T) {
	checks := []struct {
		state uint8
		sel   int
		exp   uint8
	}{
		{0, 0, 1},
		{0, 1, 2},
		{1, 1, 5},
		{252, 0, 140},
		{252, 1, 252},
	}

	for _, c := range checks {
		if nex(c.state, c.sel) != c.exp {
			t.Errorf("nex(%v,%v): got %v, expected %v", c.state, c.sel, nex(c.state, c.sel), c.exp)
		}
	}
}

func TestStateTableClosed(t *testing.T) {
	// every reachable successor is a valid state below the reserved range
	for s := 0; s < 253; s++ {
		for sel := 0; sel < 2; sel++ {
			if n := nex(uint8(s), sel); n > 252 {
				t.Errorf("state %v, bit %v: successor %v out of range", s, sel, n)
			}
		}
	}
}

func TestStateCounts(t *testing.T) {
	// state 0 has seen nothing, its successors have seen exactly one bit
	if nex(0, 2) != 0 || nex(0, 3) != 0 {
		t.Errorf("state 0 should have null counts")
	}

	if nex(nex(0, 0), 2) != 1 || nex(nex(0, 0), 3) != 0 {
		t.Errorf("state after a single 0 bit should count (1,0)")
	}

	if nex(nex(0, 1), 2) != 0 || nex(nex(0, 1), 3) != 1 {
		t.Errorf("state after a single 1 bit should count (0,1)")
	}
}
