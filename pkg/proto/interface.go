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

//go:generate mockgen -destination=../../testdata/mock_frame_source.go -package=testdata . FrameSource
//go:generate mockgen -destination=../../testdata/mock_row_sink.go -package=testdata . RowSink
package proto

type (
	// Frame is one protocol level message extracted from the
	// connection byte stream, with the 4 byte wire header already
	// stripped. A Frame is only valid until the next frame is
	// requested from its source.
	Frame []byte

	// FrameSource delivers frames one at a time, each one in response
	// to a RequestFrame call. RequestFrame is fire and forget: the
	// frame, a close or a transport error arrives later through the
	// FrameHandler the source was bound to.
	FrameSource interface {
		RequestFrame()
	}

	// FrameHandler receives the notifications of a FrameSource.
	// Calls are serialized by the source: at most one notification is
	// in flight at a time.
	FrameHandler interface {
		OnFrame(frame Frame)
		OnSourceClosed()
		OnSourceError(err error)
	}

	// RowSink consumes the rows of one result set. The stream ends
	// with exactly one OnClosed or one OnError, never both.
	RowSink interface {
		OnRow(row Row)
		OnClosed()
		OnError(err error)
	}

	// Field describes one result set column.
	Field interface {
		FieldName() string

		TableName() string

		DatabaseName() string

		TypeDatabaseName() string
	}

	// Row is one decoded-on-demand row of a result set.
	Row interface {
		// Columns returns the names of the columns. The number of
		// columns of the result is inferred from the length of the
		// slice.
		Columns() []string

		Fields() []Field

		// Data returns the raw frame payload the row was built from.
		Data() []byte

		Decode() ([]*Value, error)
	}
)
