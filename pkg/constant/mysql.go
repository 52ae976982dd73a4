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

package constant

// MaxPacketSize is the maximum payload length of a packet
// the server supports.
const MaxPacketSize = (1 << 24) - 1

// Packet types.
// https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_basic_response_packets.html
const (
	// OKPacket is the header of the OK packet.
	OKPacket = 0x00

	// EOFPacket is the header of the EOF packet. 0xfe is overloaded:
	// it also starts 8-byte length-encoded integers, so the payload
	// length must always be checked as well.
	EOFPacket = 0xfe

	// ErrPacket is the header of the error packet.
	ErrPacket = 0xff

	// NullValue is the encoded value of NULL in a text row.
	NullValue = 0xfb
)

// Capability flags, as exchanged during the handshake.
// Only the flags this package bases decisions on are listed.
const (
	// CapabilityClientProtocol41 is set when the server speaks the
	// 4.1+ protocol framing.
	CapabilityClientProtocol41 = 1 << 9

	// CapabilityClientDeprecateEOF is set when the EOF packet between
	// the column definitions and the rows is not sent.
	CapabilityClientDeprecateEOF = 1 << 24
)

// Server status flags, in the status field of OK and EOF packets.
const (
	ServerStatusAutocommit   = 0x0002
	ServerMoreResultsExists  = 0x0008
	ServerStatusCursorExists = 0x0040
	ServerStatusLastRowSent  = 0x0080
)

// Client-side error numbers, same numbering as the mysql client library.
const (
	CRUnknownError       = 2000
	CRConnectionError    = 2002
	CRServerGone         = 2006
	CRServerHandshakeErr = 2012
	CRServerLost         = 2013
	CRCommandsOutOfSync  = 2014
	CRMalformedPacket    = 2027
)

// SQL states.
const (
	SSUnknownSQLState = "HY000"
)
