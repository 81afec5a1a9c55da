package view

import (
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
)

// pidController is a parallel-form PID controller used to drive the dynamic
// resolution scale toward the frame-time target. The integral term can be
// inhibited externally, which avoids windup while the output is saturated
// against the scale limits.
type pidController struct {
	kp float32
	ki float32
	kd float32

	integralLowLimit  float32
	integralHighLimit float32
	outputLowLimit    float32
	outputHighLimit   float32
	deadBandLow       float32
	deadBandHigh      float32

	// integralInhibition multiplies the integral accumulation; it is 1 when
	// integration is active and 0 when inhibited.
	integralInhibition float32
	integral           float32
	lastError          float32
}

// newPidController creates a controller with neutral limits: proportional gain
// of 1, no integral or derivative action, unbounded output, and no dead band.
func newPidController() *pidController {
	return &pidController{
		kp:                 1,
		integralLowLimit:   math32.Inf(-1),
		integralHighLimit:  math32.Inf(1),
		outputLowLimit:     math32.Inf(-1),
		outputHighLimit:    math32.Inf(1),
		integralInhibition: 1,
	}
}

// setParallelGains sets the proportional, integral and derivative gains
// directly.
func (p *pidController) setParallelGains(kp, ki, kd float32) {
	p.kp = kp
	p.ki = ki
	p.kd = kd
}

// setOutputLimits clamps the controller output to [low, high].
func (p *pidController) setOutputLimits(low, high float32) {
	p.outputLowLimit = low
	p.outputHighLimit = high
}

// setIntegralLimits clamps the accumulated error integral to [low, high].
// The limits bound the raw error sum, before the integral gain is applied.
func (p *pidController) setIntegralLimits(low, high float32) {
	p.integralLowLimit = low
	p.integralHighLimit = high
}

// setOutputDeadBand zeroes any output strictly inside (low, high), which keeps
// the controller from dithering around the setpoint.
func (p *pidController) setOutputDeadBand(low, high float32) {
	p.deadBandLow = low
	p.deadBandHigh = high
}

// setIntegralInhibitionEnabled stops integral accumulation while enabled. The
// stored integral is kept, so control resumes smoothly once re-enabled.
func (p *pidController) setIntegralInhibitionEnabled(enabled bool) {
	if enabled {
		p.integralInhibition = 0
	} else {
		p.integralInhibition = 1
	}
}

// update advances the controller by dt with the given measurement and target,
// returning the new control output.
func (p *pidController) update(measure, target, dt float32) float32 {
	error := target - measure
	integral := common.Clamp(p.integral+p.integralInhibition*error*dt,
		p.integralLowLimit, p.integralHighLimit)
	derivative := p.kd * (error - p.lastError) / dt
	out := p.kp*error + p.ki*integral + derivative

	p.integral = integral
	p.lastError = error

	out = common.Clamp(out, p.outputLowLimit, p.outputHighLimit)
	if out > p.deadBandLow && out < p.deadBandHigh {
		out = 0
	}
	return out
}
