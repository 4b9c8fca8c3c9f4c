// Package ficha is the session-scoped store behind the anesthesia chart
// ("ficha anestésica"). A Store reads, merges and writes one Ficha document
// per session through a state.Backend, backfilling fields that older
// documents lack and migrating the pre-session legacy document once.
//
// Writes are last-writer-wins across processes sharing a backend. Callers
// that need conflict detection use Snapshot and Mutate with the returned ETag.
package ficha

// Ficha is the root aggregate. JSON names match the persisted document.
type Ficha struct {
	Paciente        Paciente        `json:"paciente"`
	Cirurgia        Cirurgia        `json:"cirurgia"`
	Intercorrencias Intercorrencias `json:"intercorrencias"`
	Tecnicas        []string        `json:"tecnicas"`
	Monitorizacao   map[string]bool `json:"monitorizacao"`
	Vitais          Vitais          `json:"vitais"`
	Meds            Meds            `json:"meds"`
	RPA             RPA             `json:"rpa"`
}

type Paciente struct {
	Nome     string `json:"nome"`
	Idade    string `json:"idade"`
	Peso     string `json:"peso"`
	Altura   string `json:"altura"`
	ASA      string `json:"asa"`
	Urgencia string `json:"urgencia"`
	Alergias string `json:"alergias"`
}

type Cirurgia struct {
	Hospital     string `json:"hospital"`
	Data         string `json:"data"`
	Inicio       string `json:"inicio"`
	Fim          string `json:"fim"`
	Procedimento string `json:"procedimento"`
	Cirurgiao    string `json:"cirurgiao"`
	Anestesista  string `json:"anestesista"`
}

// Intercorrencias records adverse events. Texto is empty whenever Houve is
// false once written through SetIntercorrencias.
type Intercorrencias struct {
	Houve bool   `json:"houve"`
	Texto string `json:"texto"`
}

type Vitais struct {
	Registros []Vital `json:"registros"`
}

// Vital is one row of the vitals table. Readings are nil when blank.
type Vital struct {
	Hora  string   `json:"hora" pattern:"^([01]\\d|2[0-3]):[0-5]\\d$"`
	PAS   *float64 `json:"pas"`
	PAD   *float64 `json:"pad"`
	FC    *float64 `json:"fc"`
	SpO2  *float64 `json:"spo2"`
	Temp  *float64 `json:"temp"`
	EtCO2 *float64 `json:"etco2"`
	FR    *float64 `json:"fr"`
	Ritmo string   `json:"ritmo"`
}

type Meds struct {
	Administradas []Medicacao  `json:"administradas"`
	Outras        []Medicacao  `json:"outras"`
	Fluidos       []Fluido     `json:"fluidos"`
	Equipamentos  Equipamentos `json:"equipamentos"`
}

// Medicacao is an administered or free-text drug. Dose keeps the decimal
// comma the form uses.
type Medicacao struct {
	Nome    string `json:"nome"`
	Dose    string `json:"dose"`
	Unidade string `json:"unidade"`
	Via     string `json:"via"`
	Horario string `json:"horario"`
}

type Fluido struct {
	Tipo    string `json:"tipo"`
	Fluido  string `json:"fluido"`
	Volume  string `json:"volume"`
	Horario string `json:"horario"`
}

// Equipamentos grows over time; readers backfill missing keys from
// Defaults on load.
type Equipamentos struct {
	TCI         bool `json:"tci"`
	BIS         bool `json:"bis"`
	TOF         bool `json:"tof"`
	Multiparam  bool `json:"multiparam"`
	Oxigenio    bool `json:"oxigenio"`
	ArComp      bool `json:"arcomp"`
	N2O         bool `json:"n2o"`
	TOFTetanica bool `json:"tof_tetanica"`

	Modelo     string `json:"modelo"`
	Outros     string `json:"outros"`
	Ventilacao string `json:"ventilacao" enum:"Espontânea,Assistida,Controlada" default:"Espontânea"`
	OxiLpm     string `json:"oxi_lpm"`

	VentModo  string `json:"vent_modo"`
	VentFiO2  string `json:"vent_fio2"`
	VentPEEP  string `json:"vent_peep"`
	VentIE    string `json:"vent_ie"`
	VentRR    string `json:"vent_rr"`
	VentVtMl  string `json:"vent_vt_ml"`
	VentPinsp string `json:"vent_pinsp"`

	TCIModo     string `json:"tci_modo"`
	TCIAlvo     string `json:"tci_alvo"`
	TCITaxaMlH  string `json:"tci_taxa_ml_h"`
	TCIConcVal  string `json:"tci_conc_val"`
	TCIConcUnit string `json:"tci_conc_unit" enum:"ng,mcg,mg" default:"ng"`

	BISInfo    string `json:"bis_info"`
	TOFPadrao  string `json:"tof_padrao"`
	TOFMusculo string `json:"tof_musculo"`
	TOFRatio   string `json:"tof_ratio"`
	TOFPTC     string `json:"tof_ptc"`

	ArCompLitros string `json:"arcomp_litros"`
	N2OLitros    string `json:"n2o_litros"`

	CAMSevo       string `json:"cam_sevo"`
	CAMHalotano   string `json:"cam_halotano"`
	CAMIsoflurano string `json:"cam_isoflurano"`
	CAMEnflurano  string `json:"cam_enflurano"`
}

// RPA is the recovery-room record.
type RPA struct {
	Drogas      []RPADroga    `json:"drogas"`
	Materiais   []RPAMaterial `json:"materiais"`
	Resumo      string        `json:"resumo"`
	Observacoes string        `json:"observacoes"`
	Destino     string        `json:"destino"`
	Aldrete     Aldrete       `json:"aldrete"`
}

type RPADroga struct {
	Nome string `json:"nome"`
	Conc string `json:"conc"`
	Qtd  string `json:"qtd"`
}

type RPAMaterial struct {
	Item     string `json:"item"`
	Variante string `json:"variante"`
	Qtd      string `json:"qtd"`
}
