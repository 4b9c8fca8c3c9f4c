package ficha

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-ficha/internal/hydrate"
	"github.com/goliatone/go-ficha/layering"
)

// RecoveryPolicy returns the document to use when the payload stored under
// key cannot be decoded.
type RecoveryPolicy func(key, raw string, err error) Ficha

// RecoverCorrupted discards the unreadable payload and starts from Defaults.
// The payload stays in the backend until the next write replaces it.
func RecoverCorrupted(string, string, error) Ficha {
	return Defaults()
}

var fichaDecoder = hydrate.NewDecoder(
	hydrate.WithPreHook[Ficha](backfillSections),
	hydrate.WithPreHook[Ficha](coerceScalars),
	hydrate.WithPreHook[Ficha](backfillEquipamentos),
	hydrate.WithPostHook(normalize),
)

// decodeFicha parses raw and merges it over Defaults.
func decodeFicha(hctx hydrate.Context, raw string) (Ficha, error) {
	return fichaDecoder.DecodeString(hctx, raw)
}

func encodeFicha(f Ficha) (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("ficha: encode: %w", err)
	}
	return string(raw), nil
}

// backfillSections applies the top-level merge: a section present in the
// payload replaces the default wholesale, an absent or null one takes the
// default.
func backfillSections(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	for name, value := range payload {
		if value == nil {
			delete(payload, name)
		}
	}
	return layering.Backfill(payload, defaultsMap()), nil
}

// backfillEquipamentos fills equipment keys added after the document was
// written. Keys with a non-empty default also take it when stored empty,
// so ventilacao and tci_conc_unit never read blank.
func backfillEquipamentos(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	meds, ok := payload["meds"].(map[string]any)
	if !ok {
		return payload, nil
	}
	defaults := defaultsMap()["meds"].(map[string]any)["equipamentos"].(map[string]any)
	equip, _ := meds["equipamentos"].(map[string]any)
	for key, value := range equip {
		if text, isText := value.(string); value == nil || isText && text == "" {
			if def, _ := defaults[key].(string); def != "" || value == nil {
				delete(equip, key)
			}
		}
	}
	meds["equipamentos"] = layering.Backfill(equip, defaults)
	return payload, nil
}

// normalize backfills the monitor vocabulary and replaces nil sequences with
// empty ones.
func normalize(_ hydrate.Context, f *Ficha) error {
	f.Monitorizacao = layering.MergeLayers(f.Monitorizacao, canonical.Monitorizacao)
	if f.Tecnicas == nil {
		f.Tecnicas = []string{}
	}
	if f.Vitais.Registros == nil {
		f.Vitais.Registros = []Vital{}
	}
	if f.Meds.Administradas == nil {
		f.Meds.Administradas = []Medicacao{}
	}
	if f.Meds.Outras == nil {
		f.Meds.Outras = []Medicacao{}
	}
	if f.Meds.Fluidos == nil {
		f.Meds.Fluidos = []Fluido{}
	}
	if f.RPA.Drogas == nil {
		f.RPA.Drogas = []RPADroga{}
	}
	if f.RPA.Materiais == nil {
		f.RPA.Materiais = []RPAMaterial{}
	}
	return nil
}
