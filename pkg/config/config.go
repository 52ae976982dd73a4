/*
 * Copyright 2022 CECTC, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cectc/rowstream/pkg/log"
)

type (
	// RowEncoding row encoding enum
	RowEncoding int32

	Configuration struct {
		// Capture is the path of a file holding the raw server
		// half of a result set conversation.
		Capture string `yaml:"capture" json:"capture"`

		Encoding RowEncoding `yaml:"encoding" json:"encoding"`

		// Protocol41 selects the 4.1+ framing. On by default,
		// matching every server of the last two decades.
		Protocol41 *bool `yaml:"protocol41,omitempty" json:"protocol41,omitempty"`

		// BatchSize is the number of rows requested per demand
		// batch while replaying.
		BatchSize uint64 `default:"64" yaml:"batch_size" json:"batch_size"`

		Log *log.Config `yaml:"log,omitempty" json:"log,omitempty"`
	}
)

const (
	Text RowEncoding = iota
	Binary
)

func (t *RowEncoding) String() string {
	switch *t {
	case Text:
		return "text"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("%d", int32(*t))
}

func (t *RowEncoding) UnmarshalText(text []byte) error {
	if t == nil {
		return errors.New("can't unmarshal a nil *RowEncoding")
	}
	if !t.unmarshalText(bytes.ToLower(text)) {
		return errors.Errorf("unrecognized row encoding: %q", text)
	}
	return nil
}

func (t *RowEncoding) unmarshalText(text []byte) bool {
	switch string(text) {
	case "text", "":
		*t = Text
	case "binary":
		*t = Binary
	default:
		return false
	}
	return true
}

func parse(content []byte) *Configuration {
	cfg := &Configuration{
		BatchSize: 64,
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		log.Fatalf("[config] [replay load] yaml unmarshal config failed, error: %v", err)
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 64
	}
	return cfg
}

// Load reads and parses the replay configuration at path.
func Load(path string) *Configuration {
	configPath, _ := filepath.Abs(path)
	log.Infof("load config from :  %s", configPath)
	content, err := ioutil.ReadFile(configPath)
	if err != nil {
		log.Fatalf("[config] [replay load] load config failed, error: %v", err)
	}
	return parse(content)
}
