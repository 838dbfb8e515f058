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

package paqmix

import (
	"testing"
)

func TestSquashStretchFixedPoints(t *testing.T) {
	checks := []struct {
		name     string
		got, exp int
	}{
		{"squash(0)", Squash(0), 2048},
		{"squash(2047)", Squash(2047), 4095},
		{"squash(-2047)", Squash(-2047), 0},
		{"squash(4000)", Squash(4000), 4095},
		{"squash(-4000)", Squash(-4000), 0},
		{"stretch(2048)", STRETCH[2048], 0},
		{"stretch(4095)", STRETCH[4095], 2047},
		{"stretch(0)", STRETCH[0], -2047},
	}

	for _, c := range checks {
		if c.got != c.exp {
			t.Errorf("%v: got %v, expected %v", c.name, c.got, c.exp)
		}
	}
}

func TestSquashMonotone(t *testing.T) {
	for d := -2046; d <= 2047; d++ {
		if Squash(d) < Squash(d-1) {
			t.Fatalf("squash not monotone at %v: %v < %v", d, Squash(d), Squash(d-1))
		}
	}

	for p := 1; p < 4096; p++ {
		if STRETCH[p] < STRETCH[p-1] {
			t.Fatalf("stretch not monotone at %v: %v < %v", p, STRETCH[p], STRETCH[p-1])
		}
	}
}

func TestSquashStretchRoundTrip(t *testing.T) {
	// squash(stretch(p)) may overshoot p by at most the squash table
	// quantization step, never undershoot
	for p := 0; p < 4096; p++ {
		q := Squash(STRETCH[p])

		if q < p || q-p >= 16 {
			t.Errorf("round trip of %v gives %v", p, q)
		}
	}

	// exact inversion at the central knots
	for d := -1024; d <= 1024; d += 128 {
		if STRETCH[Squash(d)] != d {
			t.Errorf("stretch(squash(%v)): got %v", d, STRETCH[Squash(d)])
		}
	}
}

func TestIlog(t *testing.T) {
	checks := []struct {
		x, exp int
	}{
		{0, 0},
		{1, 0},
		{2, 16},
		{3, 25},
		{4, 32},
	}

	for _, c := range checks {
		if Ilog(c.x) != c.exp {
			t.Errorf("ilog(%v): got %v, expected %v", c.x, Ilog(c.x), c.exp)
		}
	}

	for x := 1; x < 65536; x++ {
		if Ilog(x) < Ilog(x-1) {
			t.Fatalf("ilog not monotone at %v", x)
		}
	}

	// 16*log2(256) = 128, allow the integration rounding
	if d := Ilog(256) - 128; d < -1 || d > 1 {
		t.Errorf("ilog(256): got %v, expected about 128", Ilog(256))
	}

	if LLog(65535) != Ilog(65535) {
		t.Errorf("llog(65535): got %v, expected %v", LLog(65535), Ilog(65535))
	}

	if LLog(1<<20) != 128+Ilog(1<<12) {
		t.Errorf("llog(2^20): got %v", LLog(1<<20))
	}

	if LLog(1<<28) != 256+Ilog(1<<12) {
		t.Errorf("llog(2^28): got %v", LLog(1<<28))
	}
}

func TestHash(t *testing.T) {
	if Hash2(1, 2) == Hash2(2, 1) {
		t.Errorf("hash is not order sensitive")
	}

	if Hash2(1, 2) != Hash2(1, 2) {
		t.Errorf("hash is not stable")
	}

	if Hash3(1, 2, 3) == Hash2(1, 2) {
		t.Errorf("hash ignores the third value")
	}
}
