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

package errors

import (
	"bytes"
	"fmt"
)

// SQLError is the error structure returned from the protocol layer.
// It carries the mysql error number and SQL state, either reported by
// the server in an error packet or generated client side.
type SQLError struct {
	Num     int
	State   string
	Message string
}

// NewSQLError creates a new SQLError.
func NewSQLError(number int, sqlState string, format string, args ...interface{}) *SQLError {
	return &SQLError{
		Num:     number,
		State:   sqlState,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface, with the errno and SQLSTATE
// appended in a format that can be parsed back.
func (se *SQLError) Error() string {
	buf := &bytes.Buffer{}
	buf.WriteString(se.Message)
	fmt.Fprintf(buf, " (errno %v) (sqlstate %v)", se.Num, se.State)
	return buf.String()
}

// Number returns the internal mysql error code.
func (se *SQLError) Number() int {
	return se.Num
}

// SQLState returns the SQLSTATE value.
func (se *SQLError) SQLState() string {
	return se.State
}
