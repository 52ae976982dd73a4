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
	"github.com/cectc/rowstream/pkg/constant"
	err2 "github.com/cectc/rowstream/pkg/errors"
	"github.com/cectc/rowstream/pkg/misc"
)

// Field is the metadata of one result set column, decoded from a
// column definition packet. Immutable after creation.
type Field struct {
	Table        string
	OrgTable     string
	Database     string
	Name         string
	OrgName      string
	Flags        uint
	FieldType    constant.FieldType
	Decimals     byte
	CharSet      uint16
	ColumnLength uint32

	DefaultValueLength uint64
	DefaultValue       []byte
}

func (mf *Field) FieldName() string {
	return mf.Name
}

func (mf *Field) TableName() string {
	return mf.Table
}

func (mf *Field) DatabaseName() string {
	return mf.Database
}

func (mf *Field) TypeDatabaseName() string {
	switch mf.FieldType {
	case constant.FieldTypeBit:
		return "BIT"
	case constant.FieldTypeBLOB:
		if mf.CharSet != constant.BinaryCollationID {
			return "TEXT"
		}
		return "BLOB"
	case constant.FieldTypeDate:
		return "DATE"
	case constant.FieldTypeDateTime:
		return "DATETIME"
	case constant.FieldTypeDecimal:
		return "DECIMAL"
	case constant.FieldTypeDouble:
		return "DOUBLE"
	case constant.FieldTypeEnum:
		return "ENUM"
	case constant.FieldTypeFloat:
		return "FLOAT"
	case constant.FieldTypeGeometry:
		return "GEOMETRY"
	case constant.FieldTypeInt24, constant.FieldTypeUint24:
		return "MEDIUMINT"
	case constant.FieldTypeJSON:
		return "JSON"
	case constant.FieldTypeLong, constant.FieldTypeUint32:
		return "INT"
	case constant.FieldTypeLongBLOB:
		if mf.CharSet != constant.BinaryCollationID {
			return "LONGTEXT"
		}
		return "LONGBLOB"
	case constant.FieldTypeLongLong, constant.FieldTypeUint64:
		return "BIGINT"
	case constant.FieldTypeMediumBLOB:
		if mf.CharSet != constant.BinaryCollationID {
			return "MEDIUMTEXT"
		}
		return "MEDIUMBLOB"
	case constant.FieldTypeNewDate:
		return "DATE"
	case constant.FieldTypeNewDecimal:
		return "DECIMAL"
	case constant.FieldTypeNULL:
		return "NULL"
	case constant.FieldTypeSet:
		return "SET"
	case constant.FieldTypeShort, constant.FieldTypeUint16:
		return "SMALLINT"
	case constant.FieldTypeString:
		if mf.CharSet == constant.BinaryCollationID {
			return "BINARY"
		}
		return "CHAR"
	case constant.FieldTypeTime:
		return "TIME"
	case constant.FieldTypeTimestamp:
		return "TIMESTAMP"
	case constant.FieldTypeTiny, constant.FieldTypeUint8:
		return "TINYINT"
	case constant.FieldTypeTinyBLOB:
		if mf.CharSet != constant.BinaryCollationID {
			return "TINYTEXT"
		}
		return "TINYBLOB"
	case constant.FieldTypeVarChar, constant.FieldTypeVarString:
		if mf.CharSet == constant.BinaryCollationID {
			return "VARBINARY"
		}
		return "VARCHAR"
	case constant.FieldTypeYear:
		return "YEAR"
	default:
		return ""
	}
}

// ParseColumnDefinition decodes a Column Definition packet payload.
// index is only used for error reporting. Returns a SQLError.
func ParseColumnDefinition(colDef []byte, index int) (*Field, error) {
	field := &Field{}

	// Catalog is ignored, always set to "def"
	pos, ok := misc.SkipLenEncString(colDef, 0)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "skipping col %v catalog failed", index)
	}

	// schema, table, orgTable, name and orgName are strings.
	field.Database, pos, ok = misc.ReadLenEncString(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v schema failed", index)
	}
	field.Table, pos, ok = misc.ReadLenEncString(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v table failed", index)
	}
	field.OrgTable, pos, ok = misc.ReadLenEncString(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v org_table failed", index)
	}
	field.Name, pos, ok = misc.ReadLenEncString(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v name failed", index)
	}
	field.OrgName, pos, ok = misc.ReadLenEncString(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v org_name failed", index)
	}

	// Skip length of fixed-length fields.
	pos++

	// characterSet is a uint16.
	characterSet, pos, ok := misc.ReadUint16(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v characterSet failed", index)
	}
	field.CharSet = characterSet

	// columnLength is a uint32.
	field.ColumnLength, pos, ok = misc.ReadUint32(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v columnLength failed", index)
	}

	// type is one byte.
	t, pos, ok := misc.ReadByte(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v type failed", index)
	}

	// flags is 2 bytes.
	flags, pos, ok := misc.ReadUint16(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v flags failed", index)
	}
	field.Flags = uint(flags)

	// Convert MySQL type to internal type.
	var err error
	field.FieldType, err = constant.MySQLToType(int64(t), int64(flags))
	if err != nil {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "MySQLToType(%v,%v) failed for column %v: %v", t, flags, index, err)
	}

	// Decimals is a byte.
	decimals, pos, ok := misc.ReadByte(colDef, pos)
	if !ok {
		return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v decimals failed", index)
	}
	field.Decimals = decimals

	// If more content, command was field list.
	if len(colDef) > pos+8 {
		// Length of default value lenenc-int.
		field.DefaultValueLength, pos, ok = misc.ReadUint64(colDef, pos)
		if !ok {
			return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v default value failed", index)
		}

		if pos+int(field.DefaultValueLength) > len(colDef) {
			return nil, err2.NewSQLError(constant.CRMalformedPacket, constant.SSUnknownSQLState, "extracting col %v default value failed", index)
		}

		// Default value string[$len].
		field.DefaultValue = colDef[pos:(pos + int(field.DefaultValueLength))]
	}
	return field, nil
}
