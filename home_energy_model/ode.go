package home_energy_model

import (
	"math"
)

//---------------------------------------------------------------------------------------------------//
// Adaptive Runge-Kutta integration of a scalar ODE (Dormand-Prince 5(4))
//---------------------------------------------------------------------------------------------------//

const (
	ode_rtol       = 1e-3
	ode_atol       = 1e-6
	ode_safety     = 0.9
	ode_min_factor = 0.2
	ode_max_factor = 10.0
	ode_err_exp    = -1.0 / 5.0
)

var (
	rk45_c = [6]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1}
	rk45_a = [6][5]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
	}
	rk45_b = [6]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0}
	rk45_e = [7]float64{-71.0 / 57600.0, 0, 71.0 / 16695.0, -71.0 / 1920.0, 17253.0 / 339200.0, -22.0 / 525.0, 1.0 / 40.0}

	// dense output coefficients, one row per stage
	rk45_p = [7][4]float64{
		{1, -8048581381.0 / 2820520608.0, 8663915743.0 / 2820520608.0, -12715105075.0 / 11282082432.0},
		{0, 0, 0, 0},
		{0, 131558114200.0 / 32700410799.0, -68118460800.0 / 10900136933.0, 87487479700.0 / 32700410799.0},
		{0, -1754552775.0 / 470086768.0, 14199869525.0 / 1410260304.0, -10690763975.0 / 1880347072.0},
		{0, 127303824393.0 / 49829197408.0, -318862633887.0 / 49829197408.0, 701980252875.0 / 199316789632.0},
		{0, -282668133.0 / 205662961.0, 2019193451.0 / 616988883.0, -1453857185.0 / 822651844.0},
		{0, 40617522.0 / 29380423.0, -110615467.0 / 29380423.0, 69997945.0 / 29380423.0},
	}
)

// rk45_step is one accepted step, kept for dense output.
type rk45_step struct {
	t_old, t_new float64
	y_old, y_new float64
	h            float64
	q            [4]float64
}

func (s *rk45_step) y_at(t float64) float64 {
	x := (t - s.t_old) / s.h
	p := x
	y := 0.0
	for j := 0; j < 4; j++ {
		y += s.q[j] * p
		p *= x
	}
	return s.y_old + s.h*y
}

func rk45_initial_step(f func(t, y float64) float64, t0, t_end, y0, f0 float64) float64 {
	scale := ode_atol + math.Abs(y0)*ode_rtol
	d0 := math.Abs(y0) / scale
	d1 := math.Abs(f0) / scale

	var h0 float64
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	} else {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, t_end-t0)

	y1 := y0 + h0*f0
	f1 := f(t0+h0, y1)
	d2 := math.Abs(f1-f0) / scale / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/5.0)
	}
	return math.Min(100*h0, h1)
}

/*
solve_ode_rk45 integrates dy/dt = f(t, y) from t0 to t_end starting at y0.

	If event is not nil, integration stops at the first time where event(t, y)
	changes sign; a start exactly on the event surface is not a crossing.

	Returns:
		y at t_end or at the event
		time of the event
		whether the event was reached
*/
func solve_ode_rk45(
	f func(t, y float64) float64,
	t0, t_end, y0 float64,
	event func(t, y float64) float64,
) (float64, float64, bool) {
	if t_end <= t0 {
		return y0, t0, false
	}

	t, y := t0, y0
	fy := f(t, y)
	h_abs := rk45_initial_step(f, t0, t_end, y0, fy)

	var g_prev float64
	if event != nil {
		g_prev = event(t, y)
	}

	var k [7]float64
	for t < t_end {
		rejected := false
		var step rk45_step
		for {
			h := h_abs
			t_new := t + h
			if t_new > t_end {
				t_new = t_end
			}
			h = t_new - t
			h_abs = math.Abs(h)

			k[0] = fy
			for s := 1; s < 6; s++ {
				dy := 0.0
				for j := 0; j < s; j++ {
					dy += rk45_a[s][j] * k[j]
				}
				k[s] = f(t+rk45_c[s]*h, y+dy*h)
			}
			incr := 0.0
			for s := 0; s < 6; s++ {
				incr += rk45_b[s] * k[s]
			}
			y_new := y + h*incr
			k[6] = f(t_new, y_new)

			err := 0.0
			for s := 0; s < 7; s++ {
				err += rk45_e[s] * k[s]
			}
			scale := ode_atol + math.Max(math.Abs(y), math.Abs(y_new))*ode_rtol
			err_norm := math.Abs(h*err) / scale

			if err_norm < 1 {
				var factor float64
				if err_norm == 0 {
					factor = ode_max_factor
				} else {
					factor = math.Min(ode_max_factor, ode_safety*math.Pow(err_norm, ode_err_exp))
				}
				if rejected {
					factor = math.Min(1, factor)
				}
				h_abs *= factor

				step = rk45_step{t_old: t, t_new: t_new, y_old: y, y_new: y_new, h: h}
				for j := 0; j < 4; j++ {
					for s := 0; s < 7; s++ {
						step.q[j] += k[s] * rk45_p[s][j]
					}
				}
				break
			}
			h_abs *= math.Max(ode_min_factor, ode_safety*math.Pow(err_norm, ode_err_exp))
			rejected = true
		}

		if event != nil {
			g_new := event(step.t_new, step.y_new)
			if (g_prev < 0 && g_new >= 0) || (g_prev > 0 && g_new <= 0) {
				t_root := brent_root(
					func(tt float64) float64 { return event(tt, step.y_at(tt)) },
					step.t_old, step.t_new,
				)
				return step.y_at(t_root), t_root, true
			}
			g_prev = g_new
		}

		t, y = step.t_new, step.y_new
		fy = k[6]
	}
	return y, t_end, false
}

/*
brent_root finds a root of f bracketed by [a, b] with Brent's method.

	f(a) and f(b) must not have the same sign.
*/
func brent_root(f func(float64) float64, a, b float64) float64 {
	const (
		eps     = 2.220446049250313e-16
		xtol    = 4 * eps
		rtol    = 4 * eps
		maxiter = 100
	)

	xpre, xcur := a, b
	fpre, fcur := f(xpre), f(xcur)
	if fpre == 0 {
		return xpre
	}
	if fcur == 0 {
		return xcur
	}

	var xblk, fblk, spre, scur float64
	for i := 0; i < maxiter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (xtol + rtol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = f(xcur)
	}
	return xcur
}
