// Package report renders a Ficha as an A4 PDF.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"
	"time"

	ficha "github.com/goliatone/go-ficha"
	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

const (
	margin    = 14.0
	labelW    = 62.0
	rowH      = 6.0
	emptyCell = "—"
)

// Input carries what the document itself does not hold.
type Input struct {
	SessionID string
	// Chart is the PNG or JPEG data URI cached under the session chart key.
	Chart       string
	Title       string
	GeneratedAt time.Time
	// QRContent defaults to the session id. Empty SessionID and QRContent
	// skip the code.
	QRContent string
}

func (in Input) withDefaults() Input {
	if in.Title == "" {
		in.Title = "Ficha Anestésica"
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	if in.QRContent == "" {
		in.QRContent = in.SessionID
	}
	return in
}

type renderer struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

// Render writes the PDF for f to w. A missing or unreadable chart image only
// drops the image.
func Render(w io.Writer, f ficha.Ficha, in Input) error {
	in = in.withDefaults()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, 16)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetModificationDate(in.GeneratedAt)
	pdf.AliasNbPages("{nb}")
	pageW, _ := pdf.GetPageSize()

	r := &renderer{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: pageW - 2*margin,
	}
	r.pdf.SetTitle(in.Title, true)
	r.pdf.SetFooterFunc(func() {
		r.pdf.SetY(-12)
		r.pdf.SetFont("Helvetica", "", 8)
		r.pdf.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("Gerado em %s • pág. %d/{nb}", in.GeneratedAt.Format("02/01/2006 15:04"), r.pdf.PageNo())
		r.pdf.CellFormat(0, 6, r.tr(footer), "", 0, "L", false, 0, "")
	})

	pdf.AddPage()
	r.header(in)
	r.pacienteCirurgia(f)
	r.intercorrencias(f)
	r.vitais(f, in.Chart)
	r.meds(f.Meds)
	r.rpa(f.RPA)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: output: %w", err)
	}
	return nil
}

func (r *renderer) header(in Input) {
	r.pdf.SetFont("Helvetica", "B", 16)
	r.pdf.SetTextColor(17, 24, 39)
	r.pdf.CellFormat(r.width-30, 10, r.tr(in.Title), "", 1, "L", false, 0, "")
	if in.SessionID != "" {
		r.pdf.SetFont("Helvetica", "", 9)
		r.pdf.CellFormat(r.width-30, 5, r.tr("Sessão "+in.SessionID), "", 1, "L", false, 0, "")
	}
	if in.QRContent != "" {
		r.qr(in.QRContent, margin+r.width-24, margin, 24)
	}
	r.pdf.SetFillColor(2, 132, 199)
	r.pdf.Rect(0, margin+26, r.width+2*margin, 0.8, "F")
	r.pdf.SetY(margin + 30)
}

func (r *renderer) qr(content string, x, y, size float64) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return
	}
	r.image("session-qr", "png", png, x, y, size, size)
}

// image registers data under name and draws it. Undecodable data is skipped.
func (r *renderer) image(name, ext string, data []byte, x, y, w, h float64) bool {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return false
	}
	options := fpdf.ImageOptions{ImageType: ext}
	r.pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(data))
	if r.pdf.Err() {
		r.pdf.ClearError()
		return false
	}
	r.pdf.ImageOptions(name, x, y, w, h, false, options, 0, "")
	return true
}

func (r *renderer) title(text string) {
	r.pdf.Ln(3)
	r.pdf.SetFont("Helvetica", "B", 12)
	r.pdf.SetTextColor(17, 24, 39)
	r.pdf.CellFormat(0, 8, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *renderer) subtitle(text string) {
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(0, 7, r.tr(text), "", 1, "L", false, 0, "")
}

// kv renders label/value rows.
func (r *renderer) kv(pairs [][2]string) {
	r.pdf.SetDrawColor(226, 232, 240)
	r.pdf.SetTextColor(17, 24, 39)
	for _, pair := range pairs {
		r.pdf.SetFont("Helvetica", "B", 9)
		r.pdf.CellFormat(labelW, rowH, r.tr(pair[0]), "1", 0, "L", false, 0, "")
		r.pdf.SetFont("Helvetica", "", 9)
		r.pdf.MultiCell(r.width-labelW, rowH, r.tr(orDash(pair[1])), "1", "L", false)
	}
}

// table renders a header row and body rows; widths are fractions of the
// printable width.
func (r *renderer) table(head []string, widths []float64, rows [][]string) {
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(59, 130, 246)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetDrawColor(226, 232, 240)
	for i, cell := range head {
		r.pdf.CellFormat(widths[i]*r.width, rowH, r.tr(cell), "1", 0, "L", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Helvetica", "", 9)
	r.pdf.SetTextColor(17, 24, 39)
	if len(rows) == 0 {
		r.pdf.CellFormat(r.width, rowH, r.tr(emptyCell), "1", 1, "L", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			r.pdf.CellFormat(widths[i]*r.width, rowH, r.tr(orDash(cell)), "1", 0, "L", false, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

func (r *renderer) pacienteCirurgia(f ficha.Ficha) {
	p, c := f.Paciente, f.Cirurgia
	r.title("Dados do Paciente & Cirurgia")
	r.kv([][2]string{
		{"Nome", p.Nome},
		{"Idade", p.Idade},
		{"Peso (kg)", p.Peso},
		{"Altura (cm)", p.Altura},
		{"IMC", ficha.FormatBMI(p)},
		{"ASA", p.ASA},
		{"Urgência (E)", p.Urgencia},
		{"Alergias", p.Alergias},
		{"Hospital/Clínica", c.Hospital},
		{"Data", c.Data},
		{"Início", c.Inicio},
		{"Fim", c.Fim},
		{"Procedimento", c.Procedimento},
		{"Cirurgião", c.Cirurgiao},
		{"Anestesiologista", c.Anestesista},
	})
}

func (r *renderer) intercorrencias(f ficha.Ficha) {
	houve, texto := "Não", ""
	if f.Intercorrencias.Houve {
		houve, texto = "Sim", f.Intercorrencias.Texto
	}
	var monitors []string
	for _, name := range ficha.Monitors {
		if f.Monitorizacao[name] {
			monitors = append(monitors, name)
		}
	}
	r.title("Intercorrências, Técnicas & Monitorização")
	r.kv([][2]string{
		{"Houve intercorrências?", houve},
		{"Descrição", texto},
		{"Técnicas", strings.Join(f.Tecnicas, ", ")},
		{"Monitorização", strings.Join(monitors, ", ")},
	})
}

func (r *renderer) vitais(f ficha.Ficha, chart string) {
	registros := f.Vitais.Registros
	r.title("Sinais Vitais")

	principal := make([][]string, 0, len(registros))
	atributos := make([][]string, 0, len(registros))
	for _, v := range registros {
		principal = append(principal, []string{v.Hora, reading(v.PAS), reading(v.PAD), reading(v.FC), v.Ritmo})
		atributos = append(atributos, []string{v.Hora, reading(v.SpO2), reading(v.EtCO2), reading(v.Temp), reading(v.FR)})
	}
	r.table([]string{"Hora", "PAS", "PAD", "FC", "Ritmo"}, []float64{0.16, 0.14, 0.14, 0.14, 0.42}, principal)
	r.pdf.Ln(2)
	r.subtitle("Atributos por etapa")
	r.table([]string{"Hora", "SpO2 (%)", "EtCO2 (mmHg)", "Temp (°C)", "FR (irpm)"}, []float64{0.16, 0.21, 0.21, 0.21, 0.21}, atributos)

	ext, data, ok := decodeDataURLImage(chart)
	if !ok {
		return
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 {
		return
	}
	_, pageH := r.pdf.GetPageSize()
	w := r.width
	h := w * float64(cfg.Height) / float64(cfg.Width)
	if h > pageH*0.45 {
		h = pageH * 0.45
		w = h * float64(cfg.Width) / float64(cfg.Height)
	}
	if r.pdf.GetY()+h+12 > pageH-16 {
		r.pdf.AddPage()
	}
	r.pdf.Ln(3)
	r.subtitle("Gráfico de Sinais Vitais (PAS/PAD/FC)")
	if r.image("vitals-chart", ext, data, margin, r.pdf.GetY(), w, h) {
		r.pdf.SetY(r.pdf.GetY() + h + 2)
	}
}

func (r *renderer) meds(m ficha.Meds) {
	r.title("Medicações & Equipamentos")

	medRows := func(list []ficha.Medicacao) [][]string {
		rows := make([][]string, 0, len(list))
		for _, med := range list {
			rows = append(rows, []string{med.Nome, med.Dose, med.Unidade, med.Via, med.Horario})
		}
		return rows
	}
	medHead := []string{"Medicação", "Dose", "Unid.", "Via", "Hora"}
	medWidths := []float64{0.4, 0.15, 0.15, 0.15, 0.15}

	r.subtitle("Medicações Administradas")
	r.table(medHead, medWidths, medRows(m.Administradas))
	r.subtitle("Outras Medicações")
	r.table(medHead, medWidths, medRows(m.Outras))

	fluidos := make([][]string, 0, len(m.Fluidos))
	for _, fl := range m.Fluidos {
		fluidos = append(fluidos, []string{fl.Tipo, fl.Fluido, fl.Volume, fl.Horario})
	}
	r.subtitle("Terapia de Fluidos")
	r.table([]string{"Tipo", "Fluido", "Volume", "Hora"}, []float64{0.3, 0.3, 0.2, 0.2}, fluidos)

	r.pdf.Ln(2)
	r.kv(equipamentoPairs(m.Equipamentos))

	eq := m.Equipamentos
	r.subtitle("Halogenados (CAM)")
	r.table([]string{"Agente", "CAM"}, []float64{0.6, 0.4}, [][]string{
		{"Sevoflurano", eq.CAMSevo},
		{"Halotano", eq.CAMHalotano},
		{"Isoflurano", eq.CAMIsoflurano},
		{"Enflurano", eq.CAMEnflurano},
	})
}

func equipamentoPairs(eq ficha.Equipamentos) [][2]string {
	var marcados []string
	for _, flag := range []struct {
		on    bool
		label string
	}{
		{eq.TCI, "TCI/TIVA"},
		{eq.BIS, "BIS"},
		{eq.TOF, "TOF"},
		{eq.Multiparam, "Monitor multiparamétrico"},
		{eq.Oxigenio, "Oxigênio"},
		{eq.ArComp, "Ar comprimido"},
		{eq.N2O, "Óxido nitroso"},
	} {
		if flag.on {
			marcados = append(marcados, flag.label)
		}
	}

	pairs := [][2]string{
		{"Equipamentos (marcados)", strings.Join(marcados, ", ")},
		{"Aparelho de Anestesia", eq.Modelo},
		{"Outros Equip.", eq.Outros},
		{"Modo de Ventilação", eq.Ventilacao},
	}
	if eq.Oxigenio {
		pairs = append(pairs, [2]string{"Fluxo O2 (L/min)", eq.OxiLpm})
	}
	if eq.ArComp {
		pairs = append(pairs, [2]string{"Ar Comprimido (L)", eq.ArCompLitros})
	}
	if eq.N2O {
		pairs = append(pairs, [2]string{"Óxido Nitroso (L)", eq.N2OLitros})
	}
	if eq.Ventilacao != "" && eq.Ventilacao != ficha.DefaultVentilacao {
		pairs = append(pairs,
			[2]string{"Modo ventilatório", eq.VentModo},
			[2]string{"FiO2 (%)", eq.VentFiO2},
			[2]string{"PEEP (cmH2O)", eq.VentPEEP},
			[2]string{"I:E", eq.VentIE},
			[2]string{"FR (irpm)", eq.VentRR},
		)
		if strings.HasPrefix(eq.VentModo, "VCV") || eq.VentModo == "SIMV" {
			pairs = append(pairs, [2]string{"Vt (mL)", eq.VentVtMl})
		} else {
			pairs = append(pairs, [2]string{"P. Inspiração (cmH2O)", eq.VentPinsp})
		}
	}
	if eq.TCI {
		pairs = append(pairs, [2]string{"Bomba", eq.TCIModo})
		switch eq.TCIModo {
		case "TCI - Schneider", "TCI - Marsh":
			conc := ""
			if eq.TCIConcVal != "" {
				conc = eq.TCIConcVal + " " + eq.TCIConcUnit
			}
			pairs = append(pairs, [2]string{"Alvo TCI", eq.TCIAlvo}, [2]string{"Concentração alvo", conc})
		case "TIVA volumétrica (mL/h)":
			pairs = append(pairs, [2]string{"Taxa (mL/h)", eq.TCITaxaMlH})
		}
	}
	if eq.BIS {
		pairs = append(pairs, [2]string{"BIS (características)", eq.BISInfo})
	}
	if eq.TOF {
		pairs = append(pairs,
			[2]string{"TOF: Padrão", eq.TOFPadrao},
			[2]string{"TOF: Músculo", eq.TOFMusculo},
			[2]string{"TOF: Razão (%)", eq.TOFRatio},
		)
		switch eq.TOFPadrao {
		case "PTC":
			pairs = append(pairs, [2]string{"TOF: PTC (0–4)", eq.TOFPTC})
		case "Tetânico":
			pairs = append(pairs, [2]string{"TOF: Tetânica aplicada", yesNo(eq.TOFTetanica)})
		}
	}
	return pairs
}

func (r *renderer) rpa(rpa ficha.RPA) {
	r.title("Relatório & Cuidados RPA")

	drogas := make([][]string, 0, len(rpa.Drogas))
	for _, d := range rpa.Drogas {
		drogas = append(drogas, []string{d.Nome, d.Conc, d.Qtd})
	}
	r.subtitle("Fichário de Gastos — Medicações")
	r.table([]string{"Droga", "Concentração", "Quantidade"}, []float64{0.4, 0.35, 0.25}, drogas)

	materiais := make([][]string, 0, len(rpa.Materiais))
	for _, m := range rpa.Materiais {
		materiais = append(materiais, []string{m.Item, m.Variante, m.Qtd})
	}
	r.subtitle("Fichário de Gastos — Materiais")
	r.table([]string{"Item", "Variante", "Qtd."}, []float64{0.45, 0.35, 0.2}, materiais)

	r.pdf.Ln(2)
	total := rpa.Aldrete.Total()
	r.kv([][2]string{
		{"Resumo", rpa.Resumo},
		{"Aldrete (0–10)", strconv.Itoa(total) + " • " + string(ficha.ClassifyAldrete(total))},
		{"Observações RPA", rpa.Observacoes},
		{"Destino do paciente", rpa.Destino},
	})
}

// decodeDataURLImage extracts the image type and bytes of a
// data:image/png;base64,... URI.
func decodeDataURLImage(dataURL string) (ext string, data []byte, ok bool) {
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, false
	}
	idx := strings.Index(dataURL, ";base64,")
	if idx < 0 {
		return "", nil, false
	}
	header := dataURL[5:idx]
	switch {
	case strings.HasPrefix(header, "image/png"):
		ext = "png"
	case strings.HasPrefix(header, "image/jpeg"), strings.HasPrefix(header, "image/jpg"):
		ext = "jpg"
	default:
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[idx+8:])
	if err != nil || len(data) == 0 {
		return "", nil, false
	}
	return ext, data, true
}

func reading(value *float64) string {
	if value == nil {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(*value, 'f', -1, 64), ".", ",", 1)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return emptyCell
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "Sim"
	}
	return "Não"
}
