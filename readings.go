package ficha

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var horaPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ParseReading converts form text to a reading. Blank or unparseable text
// yields nil; both comma and dot decimals are accepted.
func ParseReading(text string) *float64 {
	value, ok := parseDecimal(text)
	if !ok {
		return nil
	}
	return &value
}

// Reading returns a pointer to value for building vitals in code.
func Reading(value float64) *float64 {
	return &value
}

func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(strings.Replace(text, ",", ".", 1))
	if text == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// ValidHora reports whether hora is a 24h HH:MM time of day.
func ValidHora(hora string) bool {
	return horaPattern.MatchString(hora)
}

// Validate checks the time of day and that no reading is NaN or infinite.
func (v Vital) Validate() error {
	if !ValidHora(v.Hora) {
		return fmt.Errorf("%w: hora %q is not HH:MM", ErrInvalidVital, v.Hora)
	}
	for name, reading := range v.readings() {
		if reading == nil {
			continue
		}
		if math.IsNaN(*reading) || math.IsInf(*reading, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidVital, name)
		}
	}
	return nil
}

func (v Vital) readings() map[string]*float64 {
	return map[string]*float64{
		"pas":   v.PAS,
		"pad":   v.PAD,
		"fc":    v.FC,
		"spo2":  v.SpO2,
		"temp":  v.Temp,
		"etco2": v.EtCO2,
		"fr":    v.FR,
	}
}
