package labreport

import "math"

// AddDerived fills in metrics computable from already-present fields.
// A non_hdl value printed on the report wins: its presence suppresses both
// derivations.
func AddDerived(fields FieldMap) {
	tc, haveTC := fields[FieldTotalCholesterol]
	hdl, haveHDL := fields[FieldHDL]
	if !haveTC || !haveHDL {
		return
	}
	if _, present := fields[FieldNonHDL]; present {
		return
	}
	fields[FieldNonHDL] = round2(math.Max(0, tc-hdl))
	if hdl > 0 {
		fields[FieldCholHDLRatio] = round2(tc / hdl)
	}
}
