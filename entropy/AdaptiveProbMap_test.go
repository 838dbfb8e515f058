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

	paqmix "github.com/paqmix/paqmix-go"
)

func TestAdaptiveProbMapInit(t *testing.T) {
	a, err := NewAdaptiveProbMap(4, 7)

	if err != nil {
		t.Fatalf("cannot create adaptive prob map: %v", err)
	}

	// every row starts as the squash curve sampled over 33 knots
	for i := 0; i < 4; i++ {
		for j := 0; j <= 32; j++ {
			if exp := uint16(paqmix.Squash((j-16)<<7) << 4); a.data[i*33+j] != exp {
				t.Errorf("row %v knot %v: got %v, expected %v", i, j, a.data[i*33+j], exp)
			}
		}
	}
}

func TestAdaptiveProbMapIdentity(t *testing.T) {
	a, err := NewAdaptiveProbMap(1, 7)

	if err != nil {
		t.Fatalf("cannot create adaptive prob map: %v", err)
	}

	// an untrained map is close to the identity on its own knots
	if p := a.Get(0, 2048, 0); p != 2048 {
		t.Errorf("apm(2048): got %v, expected 2048", p)
	}
}

func TestAdaptiveProbMapLearning(t *testing.T) {
	a, err := NewAdaptiveProbMap(2, 7)

	if err != nil {
		t.Fatalf("cannot create adaptive prob map: %v", err)
	}

	// repeated 1 bits at the same probability and context push the
	// refined probability above the input
	p := 2048

	for i := 0; i < 200; i++ {
		p = a.Get(1, 2048, 1)
	}

	if p <= 2048 {
		t.Errorf("apm did not adapt upward: %v", p)
	}

	// the other context rows are untouched
	if q := a.Get(0, 2048, 0); q != 2048 {
		t.Errorf("training leaked across contexts: %v", q)
	}
}

func TestAdaptiveProbMapRange(t *testing.T) {
	a, err := NewAdaptiveProbMap(1, 7)

	if err != nil {
		t.Fatalf("cannot create adaptive prob map: %v", err)
	}

	for pr := 0; pr < 4096; pr += 17 {
		p := a.Get(pr&1, pr, 0)

		if p < 0 || p > 4095 {
			t.Fatalf("probability out of range for input %v: %v", pr, p)
		}
	}
}

func TestAdaptiveProbMapValidation(t *testing.T) {
	if _, err := NewAdaptiveProbMap(0, 7); err == nil {
		t.Errorf("null size was accepted")
	}

	if _, err := NewAdaptiveProbMap(256, 0); err == nil {
		t.Errorf("null rate was accepted")
	}

	if _, err := NewAdaptiveProbMap(256, 32); err == nil {
		t.Errorf("rate 32 was accepted")
	}
}
