package ficha

import (
	"context"
	"fmt"
	"strings"
)

// Section names a top-level part of the document.
type Section string

const (
	SectionPaciente        Section = "paciente"
	SectionCirurgia        Section = "cirurgia"
	SectionIntercorrencias Section = "intercorrencias"
	SectionTecnicas        Section = "tecnicas"
	SectionMonitorizacao   Section = "monitorizacao"
	SectionVitais          Section = "vitais"
	SectionMeds            Section = "meds"
	SectionRPA             Section = "rpa"
)

// Sections lists every section in document order.
var Sections = []Section{
	SectionPaciente,
	SectionCirurgia,
	SectionIntercorrencias,
	SectionTecnicas,
	SectionMonitorizacao,
	SectionVitais,
	SectionMeds,
	SectionRPA,
}

// ParseSection resolves a section name, case-insensitively.
func ParseSection(name string) (Section, error) {
	candidate := Section(strings.ToLower(strings.TrimSpace(name)))
	for _, section := range Sections {
		if section == candidate {
			return section, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// ResetSection restores one section to its default. Resetting
// intercorrencias also clears the techniques, as the form groups them.
func (s *Store) ResetSection(ctx context.Context, section Section) error {
	defaults := Defaults()
	var apply func(*Ficha)
	switch section {
	case SectionPaciente:
		apply = func(f *Ficha) { f.Paciente = defaults.Paciente }
	case SectionCirurgia:
		apply = func(f *Ficha) { f.Cirurgia = defaults.Cirurgia }
	case SectionIntercorrencias:
		apply = func(f *Ficha) {
			f.Intercorrencias = defaults.Intercorrencias
			f.Tecnicas = defaults.Tecnicas
		}
	case SectionTecnicas:
		apply = func(f *Ficha) { f.Tecnicas = defaults.Tecnicas }
	case SectionMonitorizacao:
		apply = func(f *Ficha) { f.Monitorizacao = defaults.Monitorizacao }
	case SectionVitais:
		apply = func(f *Ficha) { f.Vitais = defaults.Vitais }
	case SectionMeds:
		apply = func(f *Ficha) { f.Meds = defaults.Meds }
	case SectionRPA:
		apply = func(f *Ficha) { f.RPA = defaults.RPA }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return s.update(ctx, change{section: section, operation: "reset"}, func(f *Ficha) (bool, error) {
		apply(f)
		return true, nil
	})
}

// SetPaciente merges patch into the patient section.
func (s *Store) SetPaciente(ctx context.Context, patch PacientePatch) error {
	return s.update(ctx, change{section: SectionPaciente, operation: "set"}, func(f *Ficha) (bool, error) {
		patch.apply(&f.Paciente)
		return true, nil
	})
}

// SetCirurgia merges patch into the surgery section.
func (s *Store) SetCirurgia(ctx context.Context, patch CirurgiaPatch) error {
	return s.update(ctx, change{section: SectionCirurgia, operation: "set"}, func(f *Ficha) (bool, error) {
		patch.apply(&f.Cirurgia)
		return true, nil
	})
}

// SetIntercorrencias merges patch and clears the text when no adverse event
// occurred.
func (s *Store) SetIntercorrencias(ctx context.Context, patch IntercorrenciasPatch) error {
	return s.update(ctx, change{section: SectionIntercorrencias, operation: "set"}, func(f *Ficha) (bool, error) {
		patch.apply(&f.Intercorrencias)
		return true, nil
	})
}

// SetEquip merges patch into meds.equipamentos key by key.
func (s *Store) SetEquip(ctx context.Context, patch EquipPatch) error {
	return s.update(ctx, change{section: SectionMeds, operation: "set_equip"}, func(f *Ficha) (bool, error) {
		patch.apply(&f.Meds.Equipamentos)
		return true, nil
	})
}

// SetRpa merges patch into the recovery-room record.
func (s *Store) SetRpa(ctx context.Context, patch RPAPatch) error {
	if err := patch.validate(); err != nil {
		return err
	}
	return s.update(ctx, change{section: SectionRPA, operation: "set"}, func(f *Ficha) (bool, error) {
		patch.apply(&f.RPA)
		return true, nil
	})
}

// SetAldreteField stores the option index of one Aldrete category.
func (s *Store) SetAldreteField(ctx context.Context, field AldreteField, index int) error {
	if err := ValidateAldrete(field, index); err != nil {
		return err
	}
	return s.update(ctx, change{section: SectionRPA, operation: "set_aldrete"}, func(f *Ficha) (bool, error) {
		next, err := f.RPA.Aldrete.With(field, index)
		if err != nil {
			return false, err
		}
		f.RPA.Aldrete = next
		return true, nil
	})
}

// SetMonitor flags one monitor of the fixed vocabulary.
func (s *Store) SetMonitor(ctx context.Context, name string, value bool) error {
	if !IsMonitor(name) {
		return fmt.Errorf("%w: %q", ErrUnknownMonitor, name)
	}
	return s.update(ctx, change{section: SectionMonitorizacao, operation: "set"}, func(f *Ficha) (bool, error) {
		f.Monitorizacao[name] = value
		return true, nil
	})
}

// SetTecnicas replaces the technique set. Duplicates collapse to the first
// occurrence.
func (s *Store) SetTecnicas(ctx context.Context, tecnicas []string) error {
	next := make([]string, 0, len(tecnicas))
	seen := make(map[string]bool, len(tecnicas))
	for _, raw := range tecnicas {
		name := strings.TrimSpace(raw)
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidTecnica)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		next = append(next, name)
	}
	return s.update(ctx, change{section: SectionTecnicas, operation: "set"}, func(f *Ficha) (bool, error) {
		f.Tecnicas = next
		return true, nil
	})
}

// ToggleTecnica removes name when present and appends it otherwise.
func (s *Store) ToggleTecnica(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTecnica)
	}
	return s.update(ctx, change{section: SectionTecnicas, operation: "toggle"}, func(f *Ficha) (bool, error) {
		next := make([]string, 0, len(f.Tecnicas)+1)
		found := false
		for _, existing := range f.Tecnicas {
			if existing == name {
				found = true
				continue
			}
			next = append(next, existing)
		}
		if !found {
			next = append(next, name)
		}
		f.Tecnicas = next
		return true, nil
	})
}
