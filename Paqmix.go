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

// Predictor predicts the probability of the next bit of a binary stream
// being 1. It is driven by an external arithmetic coder: the coder reads
// the current probability with Get(), codes one bit, then hands the actual
// bit back through Update() so that the internal models can adapt.
type Predictor interface {
	// Update adjusts the probability model with the latest coded bit (0 or 1)
	Update(bit byte)

	// Get returns the value representing the probability of the next bit
	// being 1 in the [0..4095] range
	Get() int
}
