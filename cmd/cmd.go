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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cectc/rowstream/pkg/config"
	"github.com/cectc/rowstream/pkg/constant"
	"github.com/cectc/rowstream/pkg/decoder"
	"github.com/cectc/rowstream/pkg/driver"
	"github.com/cectc/rowstream/pkg/log"
	"github.com/cectc/rowstream/pkg/proto"
)

func main() {
	rootCommand.Execute()
}

var (
	Version = "0.1.0"

	configPath  string
	capturePath string

	rootCommand = &cobra.Command{
		Use:     "rowstream",
		Short:   "rowstream decodes mysql result set captures into rows",
		Version: Version,
	}

	replayCommand = &cobra.Command{
		Use:   "replay",
		Short: "replay a captured result set byte stream",

		Run: func(cmd *cobra.Command, args []string) {
			conf := config.Load(configPath)
			if capturePath != "" {
				conf.Capture = capturePath
			}
			if conf.Log != nil {
				log.Init(*conf.Log)
			}

			capture, err := os.Open(conf.Capture)
			if err != nil {
				log.Fatalf("open capture %s failed, error: %v", conf.Capture, err)
			}
			defer capture.Close()

			protocol41 := true
			if conf.Protocol41 != nil {
				protocol41 = *conf.Protocol41
			}

			d := decoder.New(decoder.Config{
				Protocol41: protocol41,
				Binary:     conf.Encoding == config.Binary,
				OnOKPayload: func(payload proto.OKPayload) {
					fmt.Printf("ok: %d rows affected, last insert id %d, %d warnings\n",
						payload.AffectedRows, payload.LastInsertID, payload.Warnings)
				},
				OnResultEnd: func(statusFlags uint16) bool {
					log.Infof("more results follow, status flags 0x%04x", statusFlags)
					return true
				},
			}, nil)

			reader := driver.NewFrameReader(capture, d)
			defer reader.Close()

			sink := &printSink{
				decoder:   d,
				batch:     conf.BatchSize,
				remaining: conf.BatchSize,
				done:      make(chan error, 1),
			}

			// The frame reader wires the source half after the
			// decoder is built.
			d.Connect(sink)
			d.SetSource(reader)
			d.RequestRows(conf.BatchSize)

			if err := <-sink.done; err != nil {
				log.Fatalf("replay failed, error: %v", err)
			}
			log.Infof("replay done, %d rows", sink.rows)
		},
	}
)

type printSink struct {
	decoder   *decoder.Decoder
	batch     uint64
	remaining uint64
	rows      uint64
	header    bool
	done      chan error
}

func (s *printSink) OnRow(row proto.Row) {
	if !s.header {
		fmt.Println(strings.Join(row.Columns(), "\t"))
		s.header = true
	}
	values, err := row.Decode()
	if err != nil {
		// The decoder already decoded this row once, a second
		// decode cannot fail.
		log.Panicf("re-decode row failed, error: %v", err)
	}
	cells := make([]string, len(values))
	for i, value := range values {
		if value == nil || value.Val == nil {
			cells[i] = "NULL"
			continue
		}
		switch val := value.Val.(type) {
		case []byte:
			cells[i] = string(val)
		default:
			cells[i] = fmt.Sprintf("%v", val)
		}
	}
	fmt.Println(strings.Join(cells, "\t"))

	s.rows++
	s.remaining--
	if s.remaining == 0 {
		s.remaining = s.batch
		s.decoder.RequestRows(s.batch)
	}
}

func (s *printSink) OnClosed() {
	s.done <- nil
}

func (s *printSink) OnError(err error) {
	s.done <- err
}

// init Init replayCmd
func init() {
	replayCommand.PersistentFlags().StringVarP(&configPath, constant.ConfigPathKey, "c", os.Getenv(constant.EnvRowstreamConfig), "Load configuration from `FILE`")
	replayCommand.PersistentFlags().StringVar(&capturePath, "capture", "", "Capture `FILE`, overrides the configured path")
	rootCommand.AddCommand(replayCommand)
}
