package ficha

import (
	"sort"
	"testing"
)

func TestFieldsDescribeDefaultDocument(t *testing.T) {
	fields := Fields()
	if len(fields) == 0 {
		t.Fatalf("expected field descriptors")
	}
	paths := make([]string, 0, len(fields))
	byPath := map[string]FieldDescriptor{}
	for _, field := range fields {
		paths = append(paths, field.Path)
		byPath[field.Path] = field
	}
	if !sort.StringsAreSorted(paths) {
		t.Fatalf("expected sorted paths")
	}

	ventilacao, ok := byPath["meds.equipamentos.ventilacao"]
	if !ok || ventilacao.Type != "string" || ventilacao.Default != DefaultVentilacao {
		t.Fatalf("unexpected ventilacao descriptor %+v", ventilacao)
	}
	if registros := byPath["vitais.registros"]; registros.Type != "array" {
		t.Fatalf("expected vitais.registros array, got %+v", registros)
	}
	if ecg := byPath["monitorizacao.ECG"]; ecg.Type != "boolean" || ecg.Default != nil {
		t.Fatalf("unexpected ECG descriptor %+v", ecg)
	}
	if aldrete := byPath["rpa.aldrete.saturacao"]; aldrete.Type != "number" {
		t.Fatalf("unexpected aldrete descriptor %+v", aldrete)
	}
}
