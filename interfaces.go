/*
 * interfaces.go, part of dockprep.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"fmt"
	"strings"
)

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// Titler is implemented by anything that carries a title, like
// the first header line of an SDF entry or the id code of a PDB file.
type Titler interface {
	Title() string
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it just returns the current value.
}

// CError is the concrete error type for the chem package.
type CError struct {
	msg  string
	deco []string
	err  error //the cause, if any
}

func newCError(caller string, err error, format string, a ...interface{}) *CError {
	ret := &CError{msg: fmt.Sprintf(format, a...), err: err}
	if caller != "" {
		ret.deco = []string{caller}
	}
	return ret
}

func (err *CError) Error() string {
	msg := err.msg
	if len(err.deco) > 0 {
		msg = strings.Join(err.deco, ": ") + ": " + msg
	}
	if err.err != nil {
		msg = msg + ": " + err.err.Error()
	}
	return msg
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append([]string{dec}, err.deco...)
	return err.deco
}

// Unwrap returns the error that caused err, if any.
func (err *CError) Unwrap() error { return err.err }

// errDecorate decorates err with the caller's name if err implements Error.
// Other errors are wrapped in a CError. A nil error is returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
		return err
	}
	return newCError(caller, err, "error")
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrAtomOutOfRange  = PanicMsg("dockprep: Requested Atom out of bounds")
	ErrCoordOutOfRange = PanicMsg("dockprep: Requested coordinates out of bounds")
	ErrNilData         = PanicMsg("dockprep: Nil data given")
)
