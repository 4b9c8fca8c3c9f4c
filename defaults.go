package ficha

import (
	"encoding/json"
	"sync"

	"github.com/goliatone/go-ficha/layering"
)

// Monitors is the fixed monitoring vocabulary. Every name is present in
// Monitorizacao after a read.
var Monitors = []string{
	"ECG",
	"Pressão Arterial",
	"Oximetria de Pulso",
	"Capnografia",
	"Temperatura",
	"BIS",
	"TOF",
	"Pressão Venosa Central",
}

// Equipment defaults that differ from the zero value.
const (
	DefaultVentilacao  = "Espontânea"
	DefaultTCIConcUnit = "ng"
)

// IsMonitor reports whether name belongs to the monitoring vocabulary.
func IsMonitor(name string) bool {
	for _, monitor := range Monitors {
		if monitor == name {
			return true
		}
	}
	return false
}

var canonical = buildCanonical()

func buildCanonical() Ficha {
	monitors := make(map[string]bool, len(Monitors))
	for _, name := range Monitors {
		monitors[name] = false
	}
	return Ficha{
		Tecnicas:      []string{},
		Monitorizacao: monitors,
		Vitais:        Vitais{Registros: []Vital{}},
		Meds: Meds{
			Administradas: []Medicacao{},
			Outras:        []Medicacao{},
			Fluidos:       []Fluido{},
			Equipamentos: Equipamentos{
				Ventilacao:  DefaultVentilacao,
				TCIConcUnit: DefaultTCIConcUnit,
			},
		},
		RPA: RPA{
			Drogas:    []RPADroga{},
			Materiais: []RPAMaterial{},
		},
	}
}

// Defaults returns a fresh deep copy of the empty chart: every flag false,
// every sequence empty, every score zero.
func Defaults() Ficha {
	return layering.Clone(canonical)
}

var defaultPayload = sync.OnceValue(func() map[string]any {
	raw, err := json.Marshal(canonical)
	if err != nil {
		panic(err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		panic(err)
	}
	return payload
})

// defaultsMap is the JSON form of Defaults, used to backfill raw payloads.
func defaultsMap() map[string]any {
	return layering.Clone(defaultPayload())
}
