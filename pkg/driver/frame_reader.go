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

package driver

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/cectc/rowstream/pkg/constant"
	"github.com/cectc/rowstream/pkg/proto"
)

// connBufferSize is the size of the read buffer placed in front of
// the underlying reader.
const connBufferSize = 16 * 1024

// FrameReader is a pull based frame source over an io.Reader holding
// the server half of a MySQL conversation, typically a net.Conn or a
// capture file. Each RequestFrame hands one token to a single reader
// goroutine, which reads one protocol packet, reassembles payloads
// spanning MaxPacketSize and pushes the payload to the bound handler.
//
// All handler notifications are made from the reader goroutine, so a
// FrameReader bound to exactly one decoder satisfies the decoder's
// serialization requirement.
type FrameReader struct {
	reader  *bufio.Reader
	handler proto.FrameHandler

	requests chan struct{}
	done     chan struct{}
	closed   *atomic.Bool

	// sequence is seeded by the first packet, as a capture may
	// begin mid conversation, and verified to be continuous after.
	sequence    uint8
	sequenceSet bool
}

// NewFrameReader starts the reader goroutine. The handler receives
// exactly one OnFrame per RequestFrame until the stream ends, then
// one OnSourceClosed or OnSourceError.
func NewFrameReader(r io.Reader, handler proto.FrameHandler) *FrameReader {
	fr := &FrameReader{
		reader:   bufio.NewReaderSize(r, connBufferSize),
		handler:  handler,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
		closed:   atomic.NewBool(false),
	}
	go fr.run()
	return fr
}

// RequestFrame implements proto.FrameSource. It never blocks: the
// decoder requests at most one frame at a time, so a single buffered
// token is always enough.
func (fr *FrameReader) RequestFrame() {
	if fr.closed.Load() {
		return
	}
	select {
	case fr.requests <- struct{}{}:
	default:
	}
}

// Close stops the reader goroutine. It does not close the underlying
// reader. Closing twice is a no-op.
func (fr *FrameReader) Close() {
	if fr.closed.CAS(false, true) {
		close(fr.done)
	}
}

func (fr *FrameReader) run() {
	for {
		select {
		case <-fr.done:
			return
		case <-fr.requests:
		}

		data, err := fr.readFrame()
		if err != nil {
			fr.Close()
			if err == io.EOF {
				fr.handler.OnSourceClosed()
			} else {
				fr.handler.OnSourceError(err)
			}
			return
		}
		fr.handler.OnFrame(data)
	}
}

// readFrame reads one protocol level message, reassembling packets
// that span more than one wire packet.
func (fr *FrameReader) readFrame() ([]byte, error) {
	data, err := fr.readOnePacket()
	if err != nil {
		return nil, err
	}

	// Single packet case.
	if len(data) < constant.MaxPacketSize {
		return data, nil
	}

	for {
		next, err := fr.readOnePacket()
		if err != nil {
			return nil, err
		}

		if len(next) == 0 {
			// The packet after a packet of exactly size
			// MaxPacketSize.
			break
		}

		data = append(data, next...)
		if len(next) < constant.MaxPacketSize {
			break
		}
	}

	return data, nil
}

func (fr *FrameReader) readOnePacket() ([]byte, error) {
	length, err := fr.readHeader()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(fr.reader, data); err != nil {
		return nil, errors.Wrapf(err, "io.ReadFull(packet body of length %v) failed", length)
	}
	return data, nil
}

func (fr *FrameReader) readHeader() (int, error) {
	var header [4]byte
	// io.ReadFull returns two kinds of errors on a dead socket: an
	// error like 'read: connection reset by peer' if the runtime
	// already knows the socket is closed, io.EOF if it closes while
	// the read is in progress. Both mean the peer is gone.
	if _, err := io.ReadFull(fr.reader, header[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, io.EOF
		}
		if strings.HasSuffix(err.Error(), "read: connection reset by peer") {
			return 0, io.EOF
		}
		return 0, errors.Wrapf(err, "io.ReadFull(header size) failed")
	}

	sequence := uint8(header[3])
	if !fr.sequenceSet {
		fr.sequence = sequence
		fr.sequenceSet = true
	} else if sequence != fr.sequence {
		return 0, errors.Errorf("invalid sequence, expected %v got %v", fr.sequence, sequence)
	}

	fr.sequence++

	return int(uint32(header[0]) | uint32(header[1])<<8 | uint32(header[2])<<16), nil
}
