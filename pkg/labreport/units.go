package labreport

import (
	"math"
	"regexp"
)

// SI-to-conventional multipliers for fields reported in mmol/L.
const (
	cholesterolMmolPerMgdl  = 38.67
	triglycerideMmolPerMgdl = 88.57
	glucoseMmolPerMgdl      = 18.0182
)

var mmolFactors = map[Field]float64{
	FieldTotalCholesterol: cholesterolMmolPerMgdl,
	FieldHDL:              cholesterolMmolPerMgdl,
	FieldLDL:              cholesterolMmolPerMgdl,
	FieldTriglycerides:    triglycerideMmolPerMgdl,
	FieldGlucose:          glucoseMmolPerMgdl,
}

var (
	reMgdl = regexp.MustCompile(`(?i)mg/?dl`)
	reMmol = regexp.MustCompile(`(?i)mmol/?l`)
)

// ToCanonical converts one raw measurement to the field's canonical unit.
// Values without a unit, in mg/dL already, or in units with no registered
// conversion pass through unchanged.
func ToCanonical(f Field, m RawMeasurement) float64 {
	if m.Unit == "" || reMgdl.MatchString(m.Unit) {
		return m.Value
	}
	if reMmol.MatchString(m.Unit) {
		if factor, ok := mmolFactors[f]; ok {
			return round2(m.Value * factor)
		}
	}
	return m.Value
}

// NormalizeUnits converts every extracted measurement to its canonical unit.
func NormalizeUnits(raw map[Field]RawMeasurement) FieldMap {
	out := make(FieldMap, len(raw))
	for f, m := range raw {
		out[f] = ToCanonical(f, m)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
