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

package proto

import (
	"github.com/cectc/rowstream/pkg/constant"
)

type (
	// Value is one decoded column value. Raw keeps the wire bytes the
	// value was decoded from, Val the converted Go value (nil for SQL
	// NULL).
	Value struct {
		Typ   constant.FieldType
		Flags uint
		Len   int
		Val   interface{}
		Raw   []byte
	}

	// OKPayload reports the success metadata of a statement that
	// returned no result set.
	OKPayload struct {
		AffectedRows uint64
		LastInsertID uint64
		StatusFlags  uint16
		Warnings     uint16
	}
)
