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

package packet

import (
	"github.com/pkg/errors"

	"github.com/cectc/rowstream/pkg/constant"
	err2 "github.com/cectc/rowstream/pkg/errors"
	"github.com/cectc/rowstream/pkg/misc"
)

//
// Packet parsing methods, for generic packets.
//
// IsEOFPacket determines whether or not a payload is a "true" EOF. DO NOT blindly compare the
// first byte of a packet to EOFPacket as you might do for other packet types, as 0xfe is overloaded
// as a first byte.
//
// Per https://dev.mysql.com/doc/internals/en/packet-EOF_Packet.html, a packet starting with 0xfe
// but having length >= 9 (on top of 4 byte header) is not a true EOF but a LengthEncodedInteger
// (typically preceding a LengthEncodedString). Thus, all EOF checks must validate the payload size
// before exiting.
//
// More specifically, an EOF packet can have 3 different lengths (1, 5, 7) depending on the client
// flags that are set. 7 comes from server versions of 5.7.5 or greater where ClientDeprecateEOF is
// set (i.e. uses an OK packet starting with 0xfe instead of 0x00 to signal EOF). Regardless, 8 is
// an upper bound otherwise it would be ambiguous w.r.t. LengthEncodedIntegers.
//
// More docs here:
// https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_basic_response_packets.html
func IsEOFPacket(data []byte) bool {
	return len(data) > 0 && data[0] == constant.EOFPacket && len(data) < 9
}

// ParseEOFPacket returns the warning count and the status flags, which
// carry the ServerMoreResultsExists bit when more results follow on the
// same connection.
//
// Note: This is only valid on actual EOF packets and not on OK packets with the EOF
// type code set, i.e. should not be used if ClientDeprecateEOF is set.
func ParseEOFPacket(data []byte) (warnings uint16, statusFlags uint16, err error) {
	// The warning count is in position 2 & 3
	warnings, _, _ = misc.ReadUint16(data, 1)

	// The status flag is in position 4 & 5
	statusFlags, _, ok := misc.ReadUint16(data, 3)
	if !ok {
		return 0, 0, errors.Errorf("invalid EOF packet statusFlags: %v", data)
	}
	return warnings, statusFlags, nil
}

// IsOKPacket determines whether the payload is an OK packet. A column
// definition packet starts with the length-encoded catalog string and
// can never lead with 0x00, so the first byte is decisive during the
// column phase.
func IsOKPacket(data []byte) bool {
	return len(data) > 0 && data[0] == constant.OKPacket && len(data) >= 7
}

// ParseOKPacket parses an OK packet and returns the affected rows, the
// last insert id, the status flags and the warning count.
func ParseOKPacket(data []byte) (uint64, uint64, uint16, uint16, error) {
	// We already read the type.
	pos := 1

	// Affected rows.
	affectedRows, pos, ok := misc.ReadLenEncInt(data, pos)
	if !ok {
		return 0, 0, 0, 0, errors.Errorf("invalid OK packet affectedRows: %v", data)
	}

	// Last Insert ID.
	lastInsertID, pos, ok := misc.ReadLenEncInt(data, pos)
	if !ok {
		return 0, 0, 0, 0, errors.Errorf("invalid OK packet lastInsertID: %v", data)
	}

	// Status flags.
	statusFlags, pos, ok := misc.ReadUint16(data, pos)
	if !ok {
		return 0, 0, 0, 0, errors.Errorf("invalid OK packet statusFlags: %v", data)
	}

	// Warnings.
	warnings, _, ok := misc.ReadUint16(data, pos)
	if !ok {
		return 0, 0, 0, 0, errors.Errorf("invalid OK packet warnings: %v", data)
	}

	return affectedRows, lastInsertID, statusFlags, warnings, nil
}

// IsErrorPacket determines whether or not the packet is an error packet. Mostly here for
// consistency with IsEOFPacket.
func IsErrorPacket(data []byte) bool {
	return len(data) > 0 && data[0] == constant.ErrPacket
}

// ParseErrorPacket parses the error packet and returns a SQLError.
func ParseErrorPacket(data []byte) error {
	// We already read the type.
	pos := 1

	// Error code is 2 bytes.
	code, pos, ok := misc.ReadUint16(data, pos)
	if !ok {
		return err2.NewSQLError(constant.CRUnknownError, constant.SSUnknownSQLState, "invalid error packet code: %v", data)
	}

	// '#' marker of the SQL state is 1 byte. Ignored.
	pos++

	// SQL state is 5 bytes
	sqlState, pos, ok := misc.ReadBytes(data, pos, 5)
	if !ok {
		return err2.NewSQLError(constant.CRUnknownError, constant.SSUnknownSQLState, "invalid error packet sqlState: %v", data)
	}

	// Human readable error message is the rest.
	msg := string(data[pos:])

	return err2.NewSQLError(int(code), string(sqlState), "%v", msg)
}
