// Copyright 2023 The numabench authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package numabench

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Config carries the experiment parameters. The zero value is not
// usable, start from DefaultConfig.
type Config struct {
	// Seed of every pattern generator the experiment creates.
	Seed int64 `json:"seed"`
	// WarmupAccesses is the length of the untimed random pass run
	// before every timed pattern pass.
	WarmupAccesses int `json:"warmupAccesses"`
	// PatternAccesses is the timed pass length for random and
	// stride patterns, and the cap for sequential passes on
	// regions larger than this.
	PatternAccesses int `json:"patternAccesses"`
	// Stride in elements for the stride pattern.
	Stride int `json:"stride"`
	// Iterations of the migration observation loop.
	Iterations int `json:"iterations"`
	// BurstAccesses is the number of random read-modify-write
	// accesses in one timed burst of the migration loop.
	BurstAccesses int `json:"burstAccesses"`
	// PauseMs is the untimed pause after every burst, giving the
	// kernel's balancing scanner a chance to react.
	PauseMs int `json:"pauseMs"`
	// SettleSeconds is the wait after a forced page move before
	// node locations are sampled.
	SettleSeconds int `json:"settleSeconds"`
	// MinSamples and MaxSamples clamp the representative address
	// set used for distribution sampling, which targets 0.1% of
	// the region.
	MinSamples int `json:"minSamples"`
	MaxSamples int `json:"maxSamples"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:            12345,
		WarmupAccesses:  10000,
		PatternAccesses: 1000000,
		Stride:          64,
		Iterations:      400,
		BurstAccesses:   400000,
		PauseMs:         50,
		SettleSeconds:   1,
		MinSamples:      100,
		MaxSamples:      10000,
	}
}

// SetConfigJson updates the config from a JSON string.
func (c *Config) SetConfigJson(configJson string) error {
	if err := json.Unmarshal([]byte(configJson), c); err != nil {
		return err
	}
	return c.Validate()
}

// LoadConfigFile reads defaults overridden by a YAML or JSON file.
func LoadConfigFile(path string) (*Config, error) {
	config := DefaultConfig()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %q", path)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", path)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %q", path)
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch {
	case c.WarmupAccesses < 0:
		return errors.Errorf("warmupAccesses %d < 0", c.WarmupAccesses)
	case c.PatternAccesses < 1:
		return errors.Errorf("patternAccesses %d < 1", c.PatternAccesses)
	case c.Stride < 1:
		return errors.Errorf("stride %d < 1", c.Stride)
	case c.Iterations < 1:
		return errors.Errorf("iterations %d < 1", c.Iterations)
	case c.BurstAccesses < 1:
		return errors.Errorf("burstAccesses %d < 1", c.BurstAccesses)
	case c.PauseMs < 0:
		return errors.Errorf("pauseMs %d < 0", c.PauseMs)
	case c.SettleSeconds < 0:
		return errors.Errorf("settleSeconds %d < 0", c.SettleSeconds)
	case c.MinSamples < 1:
		return errors.Errorf("minSamples %d < 1", c.MinSamples)
	case c.MaxSamples < c.MinSamples:
		return errors.Errorf("maxSamples %d < minSamples %d", c.MaxSamples, c.MinSamples)
	}
	return nil
}

// Pause returns the untimed per-iteration pause as a duration.
func (c *Config) Pause() time.Duration {
	return time.Duration(c.PauseMs) * time.Millisecond
}

// Settle returns the post-migration settle wait as a duration.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}

// SampleCount returns the representative sample count for a region of
// the given element count: 0.1% clamped to [MinSamples, MaxSamples].
func (c *Config) SampleCount(elemCount int) int {
	samples := elemCount / 1000
	if samples < c.MinSamples {
		samples = c.MinSamples
	}
	if samples > c.MaxSamples {
		samples = c.MaxSamples
	}
	return samples
}
