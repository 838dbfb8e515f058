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

func TestRandomWarmup(t *testing.T) {
	rnd := newRandomGenerator()

	if rnd.table[0] != 123456789 || rnd.table[1] != 987654321 {
		t.Errorf("wrong seed: %v, %v", rnd.table[0], rnd.table[1])
	}

	// t[2] = t[1]*11 + t[0]*23/16, 32 bit arithmetic
	if exp := rnd.table[1]*11 + rnd.table[0]*23/16; rnd.table[2] != exp {
		t.Errorf("warmup mismatch at 2: got %v, expected %v", rnd.table[2], exp)
	}
}

func TestRandomDeterminism(t *testing.T) {
	r1 := newRandomGenerator()
	r2 := newRandomGenerator()
	nonZero := false

	for i := 0; i < 1000; i++ {
		v1 := r1.next()

		if v1 != r2.next() {
			t.Fatalf("sequences diverge at step %v", i)
		}

		if v1 != 0 {
			nonZero = true
		}
	}

	if nonZero == false {
		t.Errorf("the generator only produced zeros")
	}
}
