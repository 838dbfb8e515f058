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

func TestContextMapValidation(t *testing.T) {
	if _, err := NewContextMap(1000, 1); err == nil {
		t.Errorf("non power of 2 memory was accepted")
	}

	if _, err := NewContextMap(32, 1); err == nil {
		t.Errorf("memory below one bucket was accepted")
	}

	if _, err := NewContextMap(1024, 0); err == nil {
		t.Errorf("null context count was accepted")
	}
}

// feedContextMap drives a ContextMap through the bytes of data the same
// way the predictor does, contexting on the previous byte. It returns the
// order hint of every Mix call.
func feedContextMap(cm *ContextMap, m *Mixer, bc *bitContext, data []byte) []int {
	hints := make([]int, 0, len(data)*8)

	for _, b := range data {
		for j := 7; j >= 0; j-- {
			bc.fold(int(b>>uint(j)) & 1)
			m.Update(bc.y)

			if bc.bpos == 0 {
				cm.Set(bc.c4&0xFF+1, bc.back(1))
			}

			hints = append(hints, cm.Mix(m, bc.y, bc.c0, bc.bpos, bc.back(1)))
			m.Set(0, 1)
			m.Get()
		}
	}

	return hints
}

func TestContextMapOrderHint(t *testing.T) {
	cm, err := NewContextMap(1<<16, 1)

	if err != nil {
		t.Fatalf("cannot create context map: %v", err)
	}

	m, _ := NewMixer(64, 1, 1, 0)
	bc, _ := newBitContext(1 << 16)

	// before the first Set the map has no active context
	hints := feedContextMap(cm, m, bc, []byte{'A'})

	for _, h := range hints {
		if h != 0 {
			t.Fatalf("hint without context: %v", h)
		}
	}

	// first byte in the new context: the history is empty at bit 0
	hints = feedContextMap(cm, m, bc, []byte{'B'})

	if hints[0] != 0 {
		t.Errorf("first sighting should report an empty history, got %v", hints[0])
	}

	// same context again ('A' precedes both): the history is now found
	feedContextMap(cm, m, bc, []byte{'A'})
	hints = feedContextMap(cm, m, bc, []byte{'B'})

	if hints[0] != 1 {
		t.Errorf("second sighting should find the history, got %v", hints[0])
	}
}

func TestContextMapRunModel(t *testing.T) {
	cm, err := NewContextMap(1<<16, 1)

	if err != nil {
		t.Fatalf("cannot create context map: %v", err)
	}

	m, _ := NewMixer(64, 1, 1, 0)
	bc, _ := newBitContext(1 << 16)

	// repeat 'ab' so that context 'a' always precedes byte 'b'
	feedContextMap(cm, m, bc, []byte("ababababababab"))

	// the run slot of the context holds the repeated byte with a growing
	// even count (no other byte was ever seen in this context)
	if cm.runp[0][1] != 'a' && cm.runp[0][1] != 'b' {
		t.Errorf("unexpected run byte: %v", cm.runp[0][1])
	}

	if cm.runp[0][0] == 0 {
		t.Errorf("run count still empty after repeats")
	}

	if cm.runp[0][0]&1 != 0 {
		t.Errorf("run count claims other bytes were seen: %v", cm.runp[0][0])
	}
}

func TestContextMapStateProgress(t *testing.T) {
	cm, err := NewContextMap(1<<16, 1)

	if err != nil {
		t.Fatalf("cannot create context map: %v", err)
	}

	m, _ := NewMixer(64, 1, 1, 0)
	bc, _ := newBitContext(1 << 16)

	feedContextMap(cm, m, bc, []byte("xyxyxyxy"))

	// the bit 0 cell of the current slot has recorded history
	if cm.cp0[0][0] == 0 {
		t.Errorf("bit history cell never updated")
	}
}
