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

package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cectc/rowstream/pkg/constant"
	"github.com/cectc/rowstream/pkg/misc"
)

func textResultSet() *ResultSet {
	return &ResultSet{
		Columns: []*Field{
			{Table: "employee", Name: "id", FieldType: constant.FieldTypeLongLong},
			{Table: "employee", Name: "name", FieldType: constant.FieldTypeVarString},
			{Table: "employee", Name: "hired_at", FieldType: constant.FieldTypeDateTime},
		},
	}
}

func TestTextRowDecode(t *testing.T) {
	content := make([]byte, misc.LenEncStringSize("7")+misc.LenEncStringSize("scott")+misc.LenEncStringSize("2022-03-01 09:30:00"))
	pos := misc.WriteLenEncString(content, 0, "7")
	pos = misc.WriteLenEncString(content, pos, "scott")
	misc.WriteLenEncString(content, pos, "2022-03-01 09:30:00")

	row := NewTextRow(content, textResultSet(), 0)
	values, err := row.Decode()
	assert.Nil(t, err)
	assert.Len(t, values, 3)
	assert.Equal(t, []byte("7"), values[0].Val)
	assert.Equal(t, []byte("scott"), values[1].Val)

	hiredAt, ok := values[2].Val.(time.Time)
	assert.True(t, ok)
	assert.Equal(t, 2022, hiredAt.Year())
	assert.Equal(t, time.March, hiredAt.Month())
	assert.Equal(t, 30, hiredAt.Minute())
}

func TestTextRowDecodeNull(t *testing.T) {
	content := []byte{constant.NullValue}
	resultSet := &ResultSet{
		Columns: []*Field{
			{Name: "name", FieldType: constant.FieldTypeVarString},
		},
	}

	row := NewTextRow(content, resultSet, 0)
	values, err := row.Decode()
	assert.Nil(t, err)
	assert.Len(t, values, 1)
	assert.Nil(t, values[0].Val)
}

func TestTextRowDecodeTruncated(t *testing.T) {
	// Declares 5 bytes but carries 2.
	content := []byte{0x05, 'a', 'b'}
	resultSet := &ResultSet{
		Columns: []*Field{
			{Name: "name", FieldType: constant.FieldTypeVarString},
		},
	}

	row := NewTextRow(content, resultSet, 0)
	_, err := row.Decode()
	assert.NotNil(t, err)
}

func TestBinaryRowDecode(t *testing.T) {
	resultSet := &ResultSet{
		Columns: []*Field{
			{Name: "id", FieldType: constant.FieldTypeLongLong},
			{Name: "score", FieldType: constant.FieldTypeDouble},
			{Name: "name", FieldType: constant.FieldTypeVarString},
			{Name: "age", FieldType: constant.FieldTypeTiny},
		},
	}

	// header + null bitmap for 4 columns, age is NULL (bit 3+2)
	content := make([]byte, 2+8+8+misc.LenEncStringSize("scott"))
	content[0] = 0x00
	content[1] = 0x20
	pos := misc.WriteUint64(content, 2, 513)
	pos = misc.WriteUint64(content, pos, 0x400921fb54442d18) // math.Pi bits
	misc.WriteLenEncString(content, pos, "scott")

	row := NewBinaryRow(content, resultSet, 0)
	values, err := row.Decode()
	assert.Nil(t, err)
	assert.Len(t, values, 4)
	assert.Equal(t, int64(513), values[0].Val)
	assert.InDelta(t, 3.1415926, values[1].Val, 0.000001)
	assert.Equal(t, []byte("scott"), values[2].Val)
	assert.Nil(t, values[3])
}

func TestBinaryRowDecodeDateTime(t *testing.T) {
	resultSet := &ResultSet{
		Columns: []*Field{
			{Name: "hired_at", FieldType: constant.FieldTypeDateTime},
		},
	}

	// 7 byte datetime: year month day hour minute second
	content := []byte{0x00, 0x00, 0x07, 0xe6, 0x07, 0x03, 0x01, 0x09, 0x1e, 0x00}

	row := NewBinaryRow(content, resultSet, 0)
	values, err := row.Decode()
	assert.Nil(t, err)
	assert.Len(t, values, 1)

	hiredAt, ok := values[0].Val.(time.Time)
	assert.True(t, ok)
	assert.Equal(t, 2022, hiredAt.Year())
	assert.Equal(t, time.March, hiredAt.Month())
	assert.Equal(t, 1, hiredAt.Day())
	assert.Equal(t, 9, hiredAt.Hour())
	assert.Equal(t, 30, hiredAt.Minute())
}

func TestBinaryRowBadHeader(t *testing.T) {
	resultSet := &ResultSet{
		Columns: []*Field{
			{Name: "id", FieldType: constant.FieldTypeLongLong},
		},
	}

	row := NewBinaryRow([]byte{0x01, 0x00, 0x01}, resultSet, 0)
	_, err := row.Decode()
	assert.NotNil(t, err)

	row = NewBinaryRow([]byte{}, resultSet, 0)
	_, err = row.Decode()
	assert.NotNil(t, err)
}

func TestRowColumns(t *testing.T) {
	row := NewTextRow([]byte{0x01, '7'}, textResultSet(), 0)
	assert.Equal(t, []string{"employee.id", "employee.name", "employee.hired_at"}, row.Columns())
	// cached on the result set afterwards
	assert.Equal(t, []string{"employee.id", "employee.name", "employee.hired_at"}, row.Columns())
	assert.Len(t, row.Fields(), 3)
}
