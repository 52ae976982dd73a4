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

package decoder

import (
	"math"

	"github.com/cectc/rowstream/pkg/constant"
	err2 "github.com/cectc/rowstream/pkg/errors"
	"github.com/cectc/rowstream/pkg/log"
	"github.com/cectc/rowstream/pkg/misc"
	"github.com/cectc/rowstream/pkg/mysql"
	"github.com/cectc/rowstream/pkg/packet"
	"github.com/cectc/rowstream/pkg/proto"
)

type (
	// Config fixes the protocol mode of a Decoder for its whole life.
	Config struct {
		// Protocol41 selects the 4.1+ framing, which carries no
		// header terminator EOF frame between the column
		// definitions and the rows.
		Protocol41 bool

		// Binary selects the binary row layout used by prepared
		// statement execution instead of the text layout.
		Binary bool

		// OnOKPayload, when set, is invoked for a zero column
		// result header under the binary protocol, which
		// acknowledges an INSERT/UPDATE/DELETE instead of opening
		// a result set.
		OnOKPayload func(payload proto.OKPayload)

		// OnResultEnd, when set, is invoked with the raw status
		// flags of the terminal EOF frame when it carries
		// ServerMoreResultsExists. Returning true closes the
		// stream (the behavior when OnResultEnd is nil); returning
		// false detaches the decoder without a close event so the
		// caller can drive the next result set with a fresh
		// Decoder on the same source.
		OnResultEnd func(statusFlags uint16) bool
	}

	// Decoder turns the result set portion of a MySQL connection
	// byte stream into rows, pulling one frame per unit of
	// downstream demand. A Decoder handles exactly one result set
	// and becomes terminal once the stream closes or fails.
	//
	// A Decoder is not safe for concurrent use. OnFrame,
	// OnSourceClosed and OnSourceError belong to the frame source,
	// RequestRows, Cancel and Close to the consumer, and the caller
	// serializes all of them, typically by binding the Decoder to a
	// single connection goroutine.
	Decoder struct {
		conf   Config
		source proto.FrameSource
		sink   proto.RowSink

		// columnCount is -1 until the result header frame has
		// been decoded.
		columnCount int
		fields      []*mysql.Field
		resultSet   *mysql.ResultSet

		// eofHeaderSeen distinguishes the legacy header
		// terminator EOF from the end of result set EOF. The 4.1+
		// framing has no terminator, so Protocol41 starts it true.
		eofHeaderSeen bool

		demand   uint64
		pending  proto.Frame
		frameIn  bool
		inFlight bool
		rowWidth int
		terminal bool
	}
)

// New builds a Decoder over source. Connect a sink and call
// RequestRows to start pulling frames.
func New(conf Config, source proto.FrameSource) *Decoder {
	return &Decoder{
		conf:          conf,
		source:        source,
		columnCount:   -1,
		eofHeaderSeen: conf.Protocol41,
	}
}

// Connect binds the downstream consumer of rows and terminal events.
func (d *Decoder) Connect(sink proto.RowSink) {
	d.sink = sink
}

// SetSource binds the frame source when it could not be supplied to
// New, which happens when the source itself needs the Decoder as its
// frame handler. Must be called before the first RequestRows.
func (d *Decoder) SetSource(source proto.FrameSource) {
	d.source = source
}

// RequestRows adds n to the outstanding demand. A held frame is
// classified immediately; otherwise one frame is requested from the
// source unless a request is already in flight.
func (d *Decoder) RequestRows(n uint64) {
	if d.terminal || n == 0 {
		return
	}
	if d.demand > math.MaxUint64-n {
		d.demand = math.MaxUint64
	} else {
		d.demand += n
	}
	if d.frameIn {
		d.consume()
		return
	}
	d.pull()
}

// Cancel zeroes the outstanding demand. A frame already requested is
// still accepted when it arrives and held until new demand, but no
// further frame is requested and no row is emitted in the meantime.
func (d *Decoder) Cancel() {
	d.demand = 0
}

// OnFrame implements proto.FrameHandler. The frame is held as the
// single pending frame and classified as soon as demand is nonzero.
func (d *Decoder) OnFrame(frame proto.Frame) {
	if d.terminal {
		return
	}
	if d.frameIn {
		log.Warnf("frame delivered while another is pending, dropping the older one")
	}
	d.pending = frame
	d.frameIn = true
	d.inFlight = false
	if d.demand > 0 {
		d.consume()
	}
}

// OnSourceClosed implements proto.FrameHandler. The transport closed
// before the result set terminated.
func (d *Decoder) OnSourceClosed() {
	if d.terminal {
		return
	}
	d.fail(err2.NewSQLError(constant.CRServerLost, constant.SSUnknownSQLState, "connection closed during result set"))
}

// OnSourceError implements proto.FrameHandler.
func (d *Decoder) OnSourceError(err error) {
	if d.terminal {
		return
	}
	d.fail(err)
}

// Close detaches the sink and the source without a terminal event.
// Closing twice is a no-op.
func (d *Decoder) Close() {
	d.terminal = true
}

func (d *Decoder) pull() {
	if d.inFlight {
		return
	}
	d.inFlight = true
	d.source.RequestFrame()
}

// consume classifies the pending frame and keeps pulling while the
// classification asks for the next frame and demand remains.
func (d *Decoder) consume() {
	for d.frameIn && d.demand > 0 && !d.terminal {
		frame := d.pending
		d.pending = nil
		d.frameIn = false
		if !d.classify(frame) {
			return
		}
		if d.demand > 0 {
			d.pull()
		}
	}
}

// classify routes one frame by the current phase. It returns true
// when the next frame should be requested.
func (d *Decoder) classify(frame proto.Frame) bool {
	if len(frame) == 0 {
		d.fail(err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "empty frame in result set stream"))
		return false
	}
	switch {
	case d.columnCount < 0:
		return d.onHeaderFrame(frame)
	case len(d.fields) < d.columnCount:
		return d.onColumnFrame(frame)
	default:
		return d.onRowFrame(frame)
	}
}

// onHeaderFrame handles the first frame of the response. A frame
// that does not hold a length encoded column count must be a plain
// response (OK, ERR or EOF), meaning the statement opened no result
// set at all.
func (d *Decoder) onHeaderFrame(frame proto.Frame) bool {
	count, _, ok := misc.ReadLenEncInt(frame, 0)
	if !ok {
		d.onHeaderResponse(frame)
		return false
	}
	if count == 0 {
		// A zero column header is the binary protocol
		// acknowledgement of a statement without rows. The text
		// protocol never sends it.
		if !d.conf.Binary {
			d.fail(err2.NewSQLError(constant.CRCommandsOutOfSync, constant.SSUnknownSQLState, "zero column result header in text protocol"))
			return false
		}
		affectedRows, lastInsertID, statusFlags, warnings, err := packet.ParseOKPacket(frame)
		if err != nil {
			d.fail(err)
			return false
		}
		if d.conf.OnOKPayload != nil {
			d.conf.OnOKPayload(proto.OKPayload{
				AffectedRows: affectedRows,
				LastInsertID: lastInsertID,
				StatusFlags:  statusFlags,
				Warnings:     warnings,
			})
		}
		d.closed()
		return false
	}
	d.columnCount = int(count)
	d.fields = make([]*mysql.Field, 0, count)
	return true
}

func (d *Decoder) onHeaderResponse(frame proto.Frame) {
	switch {
	case packet.IsErrorPacket(frame):
		d.fail(packet.ParseErrorPacket(frame))
	case packet.IsEOFPacket(frame):
		d.closed()
	case packet.IsOKPacket(frame):
		d.closed()
	default:
		d.fail(err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "unexpected result header packet, first byte 0x%02x", frame[0]))
	}
}

// onColumnFrame handles one frame of the column definition phase. A
// response shaped frame here ends the phase early: ERR fails the
// stream, OK and EOF are treated as end of columns.
func (d *Decoder) onColumnFrame(frame proto.Frame) bool {
	switch {
	case packet.IsErrorPacket(frame):
		d.fail(packet.ParseErrorPacket(frame))
		return false
	case packet.IsEOFPacket(frame):
		// The early EOF doubles as the header terminator.
		d.eofHeaderSeen = true
		d.endOfColumns()
		return true
	case packet.IsOKPacket(frame):
		if _, _, _, _, err := packet.ParseOKPacket(frame); err != nil {
			d.fail(err)
			return false
		}
		d.endOfColumns()
		return true
	}

	field, err := mysql.ParseColumnDefinition(frame, len(d.fields))
	if err != nil {
		d.fail(err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "decode column definition %d failed: %v", len(d.fields), err))
		return false
	}
	d.fields = append(d.fields, field)
	if len(d.fields) == d.columnCount {
		d.endOfColumns()
	}
	return true
}

func (d *Decoder) endOfColumns() {
	d.columnCount = len(d.fields)
	d.resultSet = &mysql.ResultSet{Columns: d.fields}
}

// onRowFrame handles one frame once all columns are known.
func (d *Decoder) onRowFrame(frame proto.Frame) bool {
	if packet.IsEOFPacket(frame) {
		if !d.eofHeaderSeen {
			// Legacy framing: the first EOF only terminates the
			// column definitions.
			d.eofHeaderSeen = true
			return true
		}
		// A pre-4.1 EOF is the bare 0xFE marker and carries no
		// status, so only the 4.1+ framing has flags to read.
		var statusFlags uint16
		if d.conf.Protocol41 {
			var err error
			if _, statusFlags, err = packet.ParseEOFPacket(frame); err != nil {
				d.fail(err)
				return false
			}
		}
		d.endOfResultSet(statusFlags)
		return false
	}

	// Any non EOF frame proves the header terminator is behind us.
	d.eofHeaderSeen = true

	if packet.IsErrorPacket(frame) {
		d.fail(packet.ParseErrorPacket(frame))
		return false
	}

	var row proto.Row
	if d.conf.Binary {
		row = mysql.NewBinaryRow(frame, d.resultSet, d.rowWidth)
	} else {
		row = mysql.NewTextRow(frame, d.resultSet, d.rowWidth)
	}
	values, err := row.Decode()
	if err != nil {
		if _, ok := err.(*err2.SQLError); !ok {
			err = err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "decode row failed: %v", err)
		}
		d.fail(err)
		return false
	}
	if d.rowWidth == 0 {
		d.rowWidth = len(values)
	}
	d.demand--
	if d.sink != nil {
		d.sink.OnRow(row)
	}
	return true
}

func (d *Decoder) endOfResultSet(statusFlags uint16) {
	if statusFlags&constant.ServerMoreResultsExists != 0 && d.conf.OnResultEnd != nil {
		if !d.conf.OnResultEnd(statusFlags) {
			// Detach without a close event: the caller takes
			// over the source for the next result set.
			d.terminal = true
			return
		}
	}
	d.closed()
}

func (d *Decoder) closed() {
	if d.terminal {
		return
	}
	d.terminal = true
	if d.sink != nil {
		d.sink.OnClosed()
	}
}

func (d *Decoder) fail(err error) {
	if d.terminal {
		return
	}
	d.terminal = true
	log.Errorf("result set decode failed: %v", err)
	if d.sink != nil {
		d.sink.OnError(err)
	}
}
