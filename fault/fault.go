// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised                 = ProcessError("already initialised")
	ErrCacheAlreadyContainsFactorInstance = ExistsError("cache already contains factor instance")
	ErrDerivationMismatch                 = ProcessError("derived instance does not match requested path")
	ErrDuplicateDerivationPreset          = InvalidError("duplicate derivation preset")
	ErrDuplicateNetwork                   = InvalidError("duplicate network")
	ErrFactorSourceIDMismatch             = InvalidError("factor source id mismatch")
	ErrIndexOutOfRange                    = InvalidError("index out of range for key space")
	ErrIndexOverflow                      = InvalidError("index overflow")
	ErrInvalidConfiguration               = InvalidError("configuration file must return a table")
	ErrInvalidCount                       = InvalidError("invalid count")
	ErrInvalidCursor                      = InvalidError("invalid cursor")
	ErrInvalidDerivationPath              = InvalidError("invalid derivation path")
	ErrInvalidDerivationPreset            = InvalidError("invalid derivation preset")
	ErrInvalidEntityKind                  = InvalidError("invalid entity kind")
	ErrInvalidFactorSourceID              = InvalidError("invalid factor source id")
	ErrInvalidFactorSourceKind            = InvalidError("invalid factor source kind")
	ErrInvalidIndexAgnosticPath           = InvalidError("invalid index agnostic path")
	ErrInvalidKeyKind                     = InvalidError("invalid key kind")
	ErrInvalidNetwork                     = InvalidError("invalid network")
	ErrInvalidPublicKey                   = InvalidError("invalid public key")
	ErrInvalidQuantity                    = InvalidError("invalid quantity")
	ErrInvalidSecurityState               = InvalidError("security state must be either unsecured or securified")
	ErrKeyLength                          = LengthError("key length is invalid")
	ErrNetworkDiscrepancy                 = InvalidError("network discrepancy")
	ErrNotInitialised                     = ProcessError("not initialised")
	ErrNotSecurified                      = InvalidError("entity is not securified")
	ErrNotUnsecurified                    = InvalidError("entity is not unsecurified")
	ErrReadOnly                           = ProcessError("database is read only")
	ErrRateLimited                        = ProcessError("derivation rate limited")
	ErrSnapshotInvalid                    = ProcessError("snapshot is invalid")
	ErrUnknownFactorSource                = NotFoundError("unknown factor source")
	ErrWrongEntityKind                    = InvalidError("wrong entity kind")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
