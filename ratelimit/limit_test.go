// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/ratelimit"
)

func TestUnlimited(t *testing.T) {
	limiter := ratelimit.New(0, 0)
	for i := 0; i < 100; i += 1 {
		assert.Nil(t, ratelimit.LimitN(context.Background(), limiter, 1000), "%d: limited", i)
	}
}

func TestInvalidCount(t *testing.T) {
	limiter := ratelimit.New(10, 5)
	assert.Equal(t, fault.ErrInvalidCount, ratelimit.LimitN(context.Background(), limiter, 0), "zero count")
}

func TestBurstThenWait(t *testing.T) {
	limiter := ratelimit.New(20, 2)

	start := time.Now()
	assert.Nil(t, ratelimit.Limit(context.Background(), limiter), "first")
	assert.Nil(t, ratelimit.Limit(context.Background(), limiter), "second")
	assert.True(t, time.Since(start) < 40*time.Millisecond, "burst was delayed")

	assert.Nil(t, ratelimit.Limit(context.Background(), limiter), "third")
	assert.True(t, time.Since(start) >= 40*time.Millisecond, "third not delayed")
}

func TestCountAboveBurst(t *testing.T) {
	limiter := ratelimit.New(1000, 3)
	assert.Nil(t, ratelimit.LimitN(context.Background(), limiter, 50), "large count")
}

func TestCancelledWait(t *testing.T) {
	limiter := ratelimit.New(0.1, 1)
	assert.Nil(t, ratelimit.Limit(context.Background(), limiter), "first")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, context.DeadlineExceeded, ratelimit.Limit(ctx, limiter), "wait not cancelled")
}
