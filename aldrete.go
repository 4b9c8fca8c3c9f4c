package ficha

import "fmt"

// AldreteField names one of the five scored categories.
type AldreteField string

const (
	AldreteAtividade   AldreteField = "atividade"
	AldreteRespiracao  AldreteField = "respiracao"
	AldreteCirculacao  AldreteField = "circulacao"
	AldreteConsciencia AldreteField = "consciencia"
	AldreteSaturacao   AldreteField = "saturacao"
)

// AldreteFields lists the categories in form order.
var AldreteFields = []AldreteField{
	AldreteAtividade,
	AldreteRespiracao,
	AldreteCirculacao,
	AldreteConsciencia,
	AldreteSaturacao,
}

// AldreteMaxIndex is the highest option index of every category.
const AldreteMaxIndex = 2

// Aldrete holds the selected option index (0..2) of each category. Only the
// indices are persisted; the total is always derived.
type Aldrete struct {
	Atividade   int `json:"atividade" minimum:"0" maximum:"2"`
	Respiracao  int `json:"respiracao" minimum:"0" maximum:"2"`
	Circulacao  int `json:"circulacao" minimum:"0" maximum:"2"`
	Consciencia int `json:"consciencia" minimum:"0" maximum:"2"`
	Saturacao   int `json:"saturacao" minimum:"0" maximum:"2"`
}

// AldreteClass is a discharge band of the total score.
type AldreteClass string

const (
	AldreteVeryHighRisk AldreteClass = "Risco muito alto • Cuidados intensivos"
	AldreteHighRisk     AldreteClass = "Risco alto • Observação"
	AldreteModerateRisk AldreteClass = "Risco moderado"
	AldreteFitDischarge AldreteClass = "Baixo risco • Apto(a) à alta da RPA"
)

// Total sums the five category scores. Each option index scores its own value.
func (a Aldrete) Total() int {
	return a.Atividade + a.Respiracao + a.Circulacao + a.Consciencia + a.Saturacao
}

// Classify maps the total onto its fixed discharge band.
func (a Aldrete) Classify() AldreteClass {
	return ClassifyAldrete(a.Total())
}

// ClassifyAldrete maps a total score onto its band.
func ClassifyAldrete(total int) AldreteClass {
	switch {
	case total <= 3:
		return AldreteVeryHighRisk
	case total <= 6:
		return AldreteHighRisk
	case total <= 8:
		return AldreteModerateRisk
	default:
		return AldreteFitDischarge
	}
}

// Get returns the index stored for field.
func (a Aldrete) Get(field AldreteField) (int, bool) {
	ptr := a.field(field)
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

// With returns a copy of a with field set to index.
func (a Aldrete) With(field AldreteField, index int) (Aldrete, error) {
	if err := ValidateAldrete(field, index); err != nil {
		return a, err
	}
	*a.field(field) = index
	return a, nil
}

// ValidateAldrete rejects unknown categories and indices outside 0..2.
func ValidateAldrete(field AldreteField, index int) error {
	if !field.Valid() {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidAldrete, field)
	}
	if index < 0 || index > AldreteMaxIndex {
		return fmt.Errorf("%w: %s index %d out of range 0..%d", ErrInvalidAldrete, field, index, AldreteMaxIndex)
	}
	return nil
}

// Valid reports whether field is one of the five categories.
func (f AldreteField) Valid() bool {
	for _, known := range AldreteFields {
		if f == known {
			return true
		}
	}
	return false
}

func (a *Aldrete) field(field AldreteField) *int {
	switch field {
	case AldreteAtividade:
		return &a.Atividade
	case AldreteRespiracao:
		return &a.Respiracao
	case AldreteCirculacao:
		return &a.Circulacao
	case AldreteConsciencia:
		return &a.Consciencia
	case AldreteSaturacao:
		return &a.Saturacao
	default:
		return nil
	}
}
