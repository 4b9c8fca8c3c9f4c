package ficha

// Ptr returns a pointer to value, for building patches inline.
func Ptr[T any](value T) *T {
	return &value
}

// PacientePatch updates the patient section. Nil fields are left untouched.
type PacientePatch struct {
	Nome     *string
	Idade    *string
	Peso     *string
	Altura   *string
	ASA      *string
	Urgencia *string
	Alergias *string
}

func (p PacientePatch) apply(dst *Paciente) {
	assign(&dst.Nome, p.Nome)
	assign(&dst.Idade, p.Idade)
	assign(&dst.Peso, p.Peso)
	assign(&dst.Altura, p.Altura)
	assign(&dst.ASA, p.ASA)
	assign(&dst.Urgencia, p.Urgencia)
	assign(&dst.Alergias, p.Alergias)
}

// CirurgiaPatch updates the surgery section.
type CirurgiaPatch struct {
	Hospital     *string
	Data         *string
	Inicio       *string
	Fim          *string
	Procedimento *string
	Cirurgiao    *string
	Anestesista  *string
}

func (p CirurgiaPatch) apply(dst *Cirurgia) {
	assign(&dst.Hospital, p.Hospital)
	assign(&dst.Data, p.Data)
	assign(&dst.Inicio, p.Inicio)
	assign(&dst.Fim, p.Fim)
	assign(&dst.Procedimento, p.Procedimento)
	assign(&dst.Cirurgiao, p.Cirurgiao)
	assign(&dst.Anestesista, p.Anestesista)
}

// IntercorrenciasPatch updates the adverse events section. Whenever the
// merged Houve is false the text is cleared.
type IntercorrenciasPatch struct {
	Houve *bool
	Texto *string
}

func (p IntercorrenciasPatch) apply(dst *Intercorrencias) {
	assign(&dst.Houve, p.Houve)
	assign(&dst.Texto, p.Texto)
	if !dst.Houve {
		dst.Texto = ""
	}
}

// EquipPatch updates equipment settings key by key.
type EquipPatch struct {
	TCI         *bool
	BIS         *bool
	TOF         *bool
	Multiparam  *bool
	Oxigenio    *bool
	ArComp      *bool
	N2O         *bool
	TOFTetanica *bool

	Modelo     *string
	Outros     *string
	Ventilacao *string
	OxiLpm     *string

	VentModo  *string
	VentFiO2  *string
	VentPEEP  *string
	VentIE    *string
	VentRR    *string
	VentVtMl  *string
	VentPinsp *string

	TCIModo     *string
	TCIAlvo     *string
	TCITaxaMlH  *string
	TCIConcVal  *string
	TCIConcUnit *string

	BISInfo    *string
	TOFPadrao  *string
	TOFMusculo *string
	TOFRatio   *string
	TOFPTC     *string

	ArCompLitros *string
	N2OLitros    *string

	CAMSevo       *string
	CAMHalotano   *string
	CAMIsoflurano *string
	CAMEnflurano  *string
}

func (p EquipPatch) apply(dst *Equipamentos) {
	assign(&dst.TCI, p.TCI)
	assign(&dst.BIS, p.BIS)
	assign(&dst.TOF, p.TOF)
	assign(&dst.Multiparam, p.Multiparam)
	assign(&dst.Oxigenio, p.Oxigenio)
	assign(&dst.ArComp, p.ArComp)
	assign(&dst.N2O, p.N2O)
	assign(&dst.TOFTetanica, p.TOFTetanica)

	assign(&dst.Modelo, p.Modelo)
	assign(&dst.Outros, p.Outros)
	assign(&dst.Ventilacao, p.Ventilacao)
	assign(&dst.OxiLpm, p.OxiLpm)

	assign(&dst.VentModo, p.VentModo)
	assign(&dst.VentFiO2, p.VentFiO2)
	assign(&dst.VentPEEP, p.VentPEEP)
	assign(&dst.VentIE, p.VentIE)
	assign(&dst.VentRR, p.VentRR)
	assign(&dst.VentVtMl, p.VentVtMl)
	assign(&dst.VentPinsp, p.VentPinsp)

	assign(&dst.TCIModo, p.TCIModo)
	assign(&dst.TCIAlvo, p.TCIAlvo)
	assign(&dst.TCITaxaMlH, p.TCITaxaMlH)
	assign(&dst.TCIConcVal, p.TCIConcVal)
	assign(&dst.TCIConcUnit, p.TCIConcUnit)

	assign(&dst.BISInfo, p.BISInfo)
	assign(&dst.TOFPadrao, p.TOFPadrao)
	assign(&dst.TOFMusculo, p.TOFMusculo)
	assign(&dst.TOFRatio, p.TOFRatio)
	assign(&dst.TOFPTC, p.TOFPTC)

	assign(&dst.ArCompLitros, p.ArCompLitros)
	assign(&dst.N2OLitros, p.N2OLitros)

	assign(&dst.CAMSevo, p.CAMSevo)
	assign(&dst.CAMHalotano, p.CAMHalotano)
	assign(&dst.CAMIsoflurano, p.CAMIsoflurano)
	assign(&dst.CAMEnflurano, p.CAMEnflurano)
}

// RPAPatch updates the recovery-room record. Drogas and Materiais replace
// the whole list when set; Aldrete replaces all five indices.
type RPAPatch struct {
	Drogas      *[]RPADroga
	Materiais   *[]RPAMaterial
	Resumo      *string
	Observacoes *string
	Destino     *string
	Aldrete     *Aldrete
}

func (p RPAPatch) validate() error {
	if p.Aldrete == nil {
		return nil
	}
	for _, field := range AldreteFields {
		index, _ := p.Aldrete.Get(field)
		if err := ValidateAldrete(field, index); err != nil {
			return err
		}
	}
	return nil
}

func (p RPAPatch) apply(dst *RPA) {
	if p.Drogas != nil {
		dst.Drogas = append([]RPADroga{}, (*p.Drogas)...)
	}
	if p.Materiais != nil {
		dst.Materiais = append([]RPAMaterial{}, (*p.Materiais)...)
	}
	assign(&dst.Resumo, p.Resumo)
	assign(&dst.Observacoes, p.Observacoes)
	assign(&dst.Destino, p.Destino)
	assign(&dst.Aldrete, p.Aldrete)
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
