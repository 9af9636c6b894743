package flightcalc

import "math"

// kmhPerMps converts the JVD velocity terms into the DISS unit convention.
const kmhPerMps = 3.6

// DissCoefficients scale the raw DISS velocity channels.
type DissCoefficients struct {
	Wx float64 `json:"wx"`
	Wy float64 `json:"wy"`
	Wz float64 `json:"wz"`
}

// AngleCorrections are added to the raw attitude angles, in degrees.
type AngleCorrections struct {
	Kren float64 `json:"kren"`
	Tang float64 `json:"tang"`
	Kurs float64 `json:"kurs"`
}

// PlaneProfile carries the aircraft-specific calibration factors.
// K scales the horizontal JVD velocities, K1 the vertical rate.
type PlaneProfile struct {
	Name string  `json:"name"`
	K    float64 `json:"k"`
	K1   float64 `json:"k1"`
}

// UnitDissCoefficients leaves the DISS channels unscaled.
func UnitDissCoefficients() DissCoefficients {
	return DissCoefficients{Wx: 1, Wy: 1, Wz: 1}
}

// Transform appends every derived channel to t, in dependency order.
// It fails only when a required raw channel is missing, and then leaves t untouched.
func Transform(t *SampleTable, diss DissCoefficients, angles AngleCorrections, plane PlaneProfile) error {
	if err := t.Require(RequiredRawChannels...); err != nil {
		return err
	}
	n := t.Len()
	col := func(c Channel) []float64 {
		v, _ := t.Column(c)
		return v
	}
	set := func(c Channel, v []float64) {
		// Lengths are n by construction.
		_ = t.Set(c, v)
	}

	disWx, disWy, disWz := col(DISWx), col(DISWy), col(DISWz)
	wx := make([]float64, n)
	wz := make([]float64, n)
	wy := make([]float64, n)
	for i := 0; i < n; i++ {
		wx[i] = disWx[i] * diss.Wx
		wz[i] = disWz[i] * diss.Wz
		wy[i] = disWy[i] * diss.Wy
	}
	set(WxDissPNK, wx)
	set(WzDissPNK, wz)
	set(WyDissPNK, wy)

	krenSin, krenCos := trig(col(I1Kren), angles.Kren)
	tangSin, tangCos := trig(col(I1Tang), angles.Tang)
	kursSin, kursCos := trig(col(I1KursI), angles.Kurs)
	set(KrenSin, krenSin)
	set(KrenCos, krenCos)
	set(TangSin, tangSin)
	set(TangCos, tangCos)
	set(KursSin, kursSin)
	set(KursCos, kursCos)

	vn, ve, vh := col(JVDVN), col(JVDVE), col(JVDVh)
	k, k1 := plane.K, plane.K1
	wxg := make([]float64, n)
	wzg := make([]float64, n)
	wyg := make([]float64, n)
	for i := 0; i < n; i++ {
		wxg[i] = vn[i]*k*kmhPerMps*kursCos[i] + ve[i]*k*kmhPerMps*kursSin[i]
		wzg[i] = -vn[i]*k*kmhPerMps*kursSin[i] + ve[i]*k*kmhPerMps*kursCos[i]
		// Vertical rate is rotated by heading only.
		wyg[i] = vh[i] * k1 * kmhPerMps * kursSin[i]
	}
	set(WxgKBTI, wxg)
	set(WzgKBTI, wzg)
	set(WygKBTI, wyg)

	wxc := make([]float64, n)
	wyc := make([]float64, n)
	wzc := make([]float64, n)
	for i := 0; i < n; i++ {
		wxc[i] = wxg[i]*tangCos[i] + wyg[i]*tangSin[i]
		wyc[i] = -wxg[i]*tangSin[i]*krenCos[i] + wyg[i]*tangCos[i]*krenCos[i] + wzg[i]*krenSin[i]
		wzc[i] = wxg[i]*krenSin[i]*tangSin[i] - wyg[i]*tangCos[i]*krenSin[i] + wzg[i]*krenCos[i]
	}
	set(WxcKBTI, wxc)
	set(WycKBTI, wyc)
	set(WzcKBTI, wzc)

	wpKBTI := make([]float64, n)
	wpDiss := make([]float64, n)
	for i := 0; i < n; i++ {
		wpKBTI[i] = math.Sqrt(wxc[i]*wxc[i] + wzc[i]*wzc[i])
		wpDiss[i] = math.Sqrt(wx[i]*wx[i] + wz[i]*wz[i])
	}
	set(WpKBTI, wpKBTI)
	set(WpDissPNK, wpDiss)
	return nil
}

func trig(deg []float64, correction float64) (sin, cos []float64) {
	sin = make([]float64, len(deg))
	cos = make([]float64, len(deg))
	for i, d := range deg {
		sin[i], cos[i] = math.Sincos(degToRad(d + correction))
	}
	return sin, cos
}
