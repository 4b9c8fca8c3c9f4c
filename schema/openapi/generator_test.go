package openapi

import (
	"encoding/json"
	"reflect"
	"testing"

	ficha "github.com/goliatone/go-ficha"
)

func generateFicha(t *testing.T, opts ...Option) map[string]any {
	t.Helper()
	doc, err := NewGenerator(opts...).Generate(ficha.Defaults())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Round trip so assertions see plain JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func dig(t *testing.T, value any, path ...string) any {
	t.Helper()
	for _, segment := range path {
		m, ok := value.(map[string]any)
		if !ok {
			t.Fatalf("expected object at %q, got %T", segment, value)
		}
		value, ok = m[segment]
		if !ok {
			t.Fatalf("missing %q", segment)
		}
	}
	return value
}

func component(t *testing.T, doc map[string]any, name string) any {
	t.Helper()
	return dig(t, doc, "components", "schemas", name)
}

func TestGenerateFichaDocument(t *testing.T) {
	doc := generateFicha(t)

	if doc["openapi"] != Version {
		t.Fatalf("unexpected version %v", doc["openapi"])
	}
	if title := dig(t, doc, "info", "title"); title != "Ficha Anestésica" {
		t.Fatalf("unexpected title %v", title)
	}

	item := dig(t, doc, "paths", DefaultBasePath)
	params := dig(t, item, "parameters").([]any)
	if len(params) != 1 || dig(t, params[0], "name") != "sid" || dig(t, params[0], "in") != "path" {
		t.Fatalf("unexpected parameters %v", params)
	}
	if id := dig(t, item, "get", "operationId"); id != "getFicha" {
		t.Fatalf("unexpected get operation %v", id)
	}
	ref := dig(t, item, "put", "requestBody", "content", "application/json", "schema", "$ref")
	if ref != "#/components/schemas/Ficha" {
		t.Fatalf("unexpected request schema %v", ref)
	}
	if got := dig(t, item, "get", "responses", "200", "content", "application/json", "schema", "$ref"); got != ref {
		t.Fatalf("expected read and write to share the schema, got %v", got)
	}
	if dig(t, item, "get", "responses", "200", "headers", "ETag", "schema", "type") != "string" {
		t.Fatalf("expected ETag header on read")
	}
	responses := dig(t, item, "put", "responses").(map[string]any)
	if _, ok := responses["204"]; !ok {
		t.Fatalf("expected 204 response on put")
	}
	if _, ok := responses["412"]; !ok {
		t.Fatalf("expected 412 response on put")
	}
}

func TestGenerateSectionPath(t *testing.T) {
	doc := generateFicha(t)
	item := dig(t, doc, "paths", DefaultBasePath+"/{section}")
	params := dig(t, item, "parameters").([]any)
	if len(params) != 2 || dig(t, params[1], "name") != "section" {
		t.Fatalf("unexpected parameters %v", params)
	}
	enum := dig(t, params[1], "schema", "enum").([]any)
	if len(enum) != len(ficha.Sections) {
		t.Fatalf("expected %d sections, got %v", len(ficha.Sections), enum)
	}
	if dig(t, item, "delete", "operationId") != "resetFichaSection" {
		t.Fatalf("expected section reset operation")
	}
}

func TestGenerateFichaConstraints(t *testing.T) {
	doc := generateFicha(t)
	root := dig(t, component(t, doc, "Ficha"), "properties")

	if dig(t, root, "rpa", "$ref") != "#/components/schemas/RPA" {
		t.Fatalf("expected rpa to reference its component, got %v", dig(t, root, "rpa"))
	}
	saturacao := dig(t, component(t, doc, "Aldrete"), "properties", "saturacao")
	if dig(t, saturacao, "type") != "integer" || dig(t, saturacao, "minimum") != 0.0 || dig(t, saturacao, "maximum") != 2.0 {
		t.Fatalf("unexpected aldrete schema %v", saturacao)
	}

	vital := component(t, doc, "Vital")
	if pattern := dig(t, vital, "properties", "hora", "pattern"); pattern != `^([01]\d|2[0-3]):[0-5]\d$` {
		t.Fatalf("unexpected hora pattern %v", pattern)
	}
	pas := dig(t, vital, "properties", "pas")
	if dig(t, pas, "nullable") != true || dig(t, pas, "type") != "number" {
		t.Fatalf("expected nullable number reading, got %v", pas)
	}
	if required := dig(t, vital, "required").([]any); !reflect.DeepEqual([]any{"hora", "ritmo"}, required) {
		t.Fatalf("expected readings to be optional, got %v", required)
	}

	ventilacao := dig(t, component(t, doc, "Equipamentos"), "properties", "ventilacao")
	if dig(t, ventilacao, "default") != ficha.DefaultVentilacao {
		t.Fatalf("unexpected ventilacao default %v", ventilacao)
	}
	if enum := dig(t, ventilacao, "enum").([]any); len(enum) != 3 || enum[0] != "Espontânea" {
		t.Fatalf("unexpected ventilacao enum %v", enum)
	}

	monitors := dig(t, root, "monitorizacao")
	if dig(t, monitors, "additionalProperties", "type") != "boolean" {
		t.Fatalf("expected boolean monitor values, got %v", monitors)
	}
	if props := dig(t, monitors, "properties").(map[string]any); len(props) != len(ficha.Monitors) {
		t.Fatalf("expected %d monitors, got %d", len(ficha.Monitors), len(props))
	}
}

func TestGenerateSharesNamedStructs(t *testing.T) {
	doc := generateFicha(t)
	meds := dig(t, component(t, doc, "Meds"), "properties")
	for _, list := range []string{"administradas", "outras"} {
		if ref := dig(t, meds, list, "items", "$ref"); ref != "#/components/schemas/Medicacao" {
			t.Fatalf("%s: expected Medicacao reference, got %v", list, ref)
		}
	}
	if _, ok := dig(t, component(t, doc, "Medicacao"), "properties").(map[string]any)["dose"]; !ok {
		t.Fatalf("expected medication properties")
	}
}

func TestGeneratorOptions(t *testing.T) {
	doc := generateFicha(t,
		WithInfo("Ficha API", "2.0.0"),
		WithDescription("session documents"),
		WithBasePath("/ficha/"),
	)
	if dig(t, doc, "info", "version") != "2.0.0" || dig(t, doc, "info", "description") != "session documents" {
		t.Fatalf("unexpected info %v", doc["info"])
	}
	item := dig(t, doc, "paths", "/ficha").(map[string]any)
	if _, ok := item["parameters"]; ok {
		t.Fatalf("expected no path parameters")
	}
	params := dig(t, doc, "paths", "/ficha/{section}", "parameters").([]any)
	if len(params) != 1 {
		t.Fatalf("expected only the section parameter, got %v", params)
	}
}

func TestGenerateRecursiveTypes(t *testing.T) {
	type Node struct {
		Name     string  `json:"name"`
		Children []*Node `json:"children,omitempty"`
	}
	doc, err := NewGenerator().Generate(Node{Name: "root"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	node := doc["components"].(map[string]any)["schemas"].(map[string]map[string]any)["Node"]
	items := node["properties"].(map[string]any)["children"].(map[string]any)["items"].(map[string]any)
	if items["nullable"] != true {
		t.Fatalf("expected nullable child reference, got %v", items)
	}
	if !reflect.DeepEqual(node["required"], []string{"name"}) {
		t.Fatalf("unexpected required %v", node["required"])
	}
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	type bad struct {
		Index map[int]string `json:"index"`
	}
	if _, err := NewGenerator().Generate(bad{}); err == nil {
		t.Fatalf("expected error for non-string map keys")
	}
	if _, err := NewGenerator().Generate(map[string]any{}); err == nil {
		t.Fatalf("expected error for a non-struct root")
	}
}
