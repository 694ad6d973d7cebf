// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
)

// InvariantViolation - the value carried by a panic raised when
// internal state has diverged from what callers believe it to be
//
// it deliberately does not implement error
type InvariantViolation struct {
	Message string
}

// String - the violation message
func (v InvariantViolation) String() string {
	return "invariant violation: " + v.Message
}

// hold a logger channel
var globalData struct {
	sync.Mutex
	log *logger.L
}

// Initialise - setup a log channel for last attempt to log something
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.log {
		return ErrAlreadyInitialised
	}
	globalData.log = logger.New("PANIC")
	return nil
}

// Finalise - flush any data
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.log {
		globalData.log.Flush()
		globalData.log = nil
	}
}

// Panicf - panic with an InvariantViolation built from a formatted
// string with arguments like fmt.Sprintf()
func Panicf(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if _, file, line, ok := runtime.Caller(1); ok {
		criticalf("(%q:%d) %s", file, line, message)
	} else {
		criticalf("%s", message)
	}
	panic(InvariantViolation{Message: message})
}

// PanicIfError - conditional panic
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	s := fmt.Sprintf("%s failed with error: %v", message, err)
	criticalf("%s", s)
	panic(InvariantViolation{Message: s})
}

// internal routine to handle an uninitialised logger channel
func criticalf(format string, arguments ...interface{}) {
	globalData.Lock()
	log := globalData.log
	globalData.Unlock()

	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
		return
	}
	log.Criticalf(format, arguments...)
	time.Sleep(10 * time.Millisecond) // to allow logging output
}
