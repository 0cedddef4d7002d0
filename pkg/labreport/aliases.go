package labreport

// aliases maps each canonical field to the phrases it appears under on
// printed reports. Phrases are matched lowercased and punctuation-insensitive
// (see patterns.go), so "chol, total" also covers "Chol. Total".
var aliases = map[Field][]string{
	// Lipid panel
	FieldTotalCholesterol: {
		"total cholesterol", "cholesterol total", "chol total", "chol, total", "tc",
	},
	FieldHDL: {"hdl", "hdl cholesterol", "hdl-cholesterol", "hdl-c", "hdl c"},
	FieldLDL: {
		"ldl", "ldl cholesterol", "ldl-cholesterol", "ldl-c", "ldl c",
		"ldl calc", "ldl-chol calc", "ldl cholesterol calc", "ldl calculated",
	},
	FieldTriglycerides: {"triglycerides", "trig", "tg", "triglyc"},
	FieldNonHDL:        {"non-hdl", "non hdl", "nonhdl"},
	FieldCholHDLRatio:  {"chol:hdl ratio", "chol/hdl ratio", "tc/hdl ratio", "chol to hdl ratio"},

	// Comprehensive metabolic panel
	FieldGlucose:    {"glucose", "fasting glucose", "fpg"},
	"bun":           {"bun", "blood urea nitrogen"},
	"creatinine":    {"creatinine"},
	"sodium":        {"sodium", "na"},
	"potassium":     {"potassium", "k"},
	"chloride":      {"chloride", "cl"},
	"bicarbonate":   {"bicarbonate", "co2", "carbon dioxide"},
	"calcium":       {"calcium", "ca"},
	"albumin":       {"albumin"},
	"total_protein": {"total protein", "protein total"},

	// Liver panel
	"alt":       {"alt", "alanine aminotransferase", "alanine transaminase"},
	"ast":       {"ast", "aspartate aminotransferase", "aspartate transaminase"},
	"alp":       {"alp", "alkaline phosphatase"},
	"bilirubin": {"bilirubin", "total bilirubin", "tbili"},

	// Complete blood count
	"wbc":   {"wbc", "white blood cells", "leukocytes"},
	"rbc":   {"rbc", "red blood cells"},
	"hgb":   {"hgb", "hemoglobin"},
	"hct":   {"hct", "hematocrit"},
	"mcv":   {"mcv"},
	"rdw":   {"rdw", "rdw-cv"},
	"plt":   {"plt", "platelets"},
	"mpv":   {"mpv"},
	"neut":  {"neut", "neutrophils"},
	"lymph": {"lymph", "lymphocytes"},
	"mono":  {"mono", "monocytes"},
	"eos":   {"eos", "eosinophils"},
	"baso":  {"baso", "basophils"},

	// Inflammation
	"crp": {"crp", "hs-crp", "c-reactive protein"},
}

// fieldOrder fixes the iteration order of the vocabulary so extraction is
// deterministic. Multi-word lipid fields come first so "total cholesterol"
// resolves before shorter aliases get a chance at the same line.
var fieldOrder = []Field{
	FieldTotalCholesterol, FieldHDL, FieldLDL, FieldTriglycerides,
	FieldNonHDL, FieldCholHDLRatio,
	FieldGlucose, "bun", "creatinine", "sodium", "potassium", "chloride",
	"bicarbonate", "calcium", "albumin", "total_protein",
	"alt", "ast", "alp", "bilirubin",
	"wbc", "rbc", "hgb", "hct", "mcv", "rdw", "plt", "mpv",
	"neut", "lymph", "mono", "eos", "baso",
	"crp",
}

// Vocabulary returns the canonical fields in extraction order.
func Vocabulary() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// IsCanonical reports whether f belongs to the fixed vocabulary.
func IsCanonical(f Field) bool {
	_, ok := aliases[f]
	return ok
}
