// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/walletbrain/fault"
)

// New - limiter allowing ratePerSecond events with a burst
//
// a non-positive rate means no limit
func New(ratePerSecond float64, burst int) *rate.Limiter {
	if ratePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), burst)
}

// Limit - limiting for a single request
func Limit(ctx context.Context, limiter *rate.Limiter) error {
	return wait(ctx, limiter.Reserve())
}

// LimitN - limiting for a multiple request
//
// counts above the burst are limited as a full burst
func LimitN(ctx context.Context, limiter *rate.Limiter, count int) error {
	if count <= 0 {
		return fault.ErrInvalidCount
	}
	if burst := limiter.Burst(); burst > 0 && count > burst {
		count = burst
	}
	return wait(ctx, limiter.ReserveN(time.Now(), count))
}

func wait(ctx context.Context, r *rate.Reservation) error {
	if !r.OK() {
		return fault.ErrRateLimited
	}
	delay := r.Delay()
	if 0 == delay {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
