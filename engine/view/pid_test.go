package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPidProportionalResponse(t *testing.T) {
	p := newPidController()
	p.setParallelGains(0.5, 0, 0)

	assert.InDelta(t, -0.5, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, 0.5, p.update(0, 1, 1), 1e-6)
}

func TestPidDeadBandZeroesSmallOutputs(t *testing.T) {
	p := newPidController()
	p.setParallelGains(1, 0, 0)
	p.setOutputDeadBand(-0.01, 0.05)

	assert.Zero(t, p.update(1, 1, 1))
	assert.Zero(t, p.update(0.96, 1, 1))
	// Outputs at or beyond the band edges pass through.
	assert.InDelta(t, -0.2, p.update(1.2, 1, 1), 1e-6)
}

func TestPidIntegralAccumulatesAndClamps(t *testing.T) {
	p := newPidController()
	p.setParallelGains(0, 1, 0)
	p.setIntegralLimits(-2, 2)

	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, -2, p.update(2, 1, 1), 1e-6)
	// The error sum is clamped at -2, so further identical steps all produce
	// the same output instead of winding up.
	assert.InDelta(t, -2, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, -2, p.update(2, 1, 1), 1e-6)
}

func TestPidIntegralLimitsBoundErrorSum(t *testing.T) {
	p := newPidController()
	p.setParallelGains(0, 0.5, 0)
	p.setIntegralLimits(-2, 2)

	// The limits apply to the raw error sum, not the gained term: with a
	// constant error of -1 the output saturates at ki times the limit.
	assert.InDelta(t, -0.5, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
}

func TestPidIntegralInhibitionFreezesAccumulation(t *testing.T) {
	p := newPidController()
	p.setParallelGains(0, 1, 0)

	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	p.setIntegralInhibitionEnabled(true)
	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	p.setIntegralInhibitionEnabled(false)
	assert.InDelta(t, -2, p.update(2, 1, 1), 1e-6)
}

func TestPidDerivativeReactsToErrorChange(t *testing.T) {
	p := newPidController()
	p.setParallelGains(0, 0, 1)

	// First step: error jumps from 0 to -1.
	assert.InDelta(t, -1, p.update(2, 1, 1), 1e-6)
	// Steady error: no derivative contribution.
	assert.Zero(t, p.update(2, 1, 1))
}

func TestPidOutputLimits(t *testing.T) {
	p := newPidController()
	p.setParallelGains(10, 0, 0)
	p.setOutputLimits(-1, 1)

	assert.InDelta(t, -1, p.update(5, 1, 1), 1e-6)
	assert.InDelta(t, 1, p.update(-5, 1, 1), 1e-6)
}
