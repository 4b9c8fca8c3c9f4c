package ficha

import "strconv"

// BMI derives weight / height² from the patient strings, height in cm. It is
// never stored. ok is false when either value is blank, zero or unparseable.
func BMI(p Paciente) (float64, bool) {
	peso, ok := parseDecimal(p.Peso)
	if !ok || peso <= 0 {
		return 0, false
	}
	altura, ok := parseDecimal(p.Altura)
	if !ok || altura <= 0 {
		return 0, false
	}
	metros := altura / 100
	return peso / (metros * metros), true
}

// FormatBMI renders the BMI with one decimal, or "—" when it cannot be derived.
func FormatBMI(p Paciente) string {
	value, ok := BMI(p)
	if !ok {
		return "—"
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}
