package ficha

import "context"

// Sequence mutators append at the end and remove by position. Removing an
// index outside the sequence is a no-op and writes nothing.

// AddVital appends a vitals row after validating its time and readings.
func (s *Store) AddVital(ctx context.Context, v Vital) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return s.update(ctx, change{section: SectionVitais, operation: "add"}, func(f *Ficha) (bool, error) {
		f.Vitais.Registros = appendItem(f.Vitais.Registros, v)
		return true, nil
	})
}

func (s *Store) RemoveVital(ctx context.Context, index int) error {
	return s.update(ctx, removal(SectionVitais, index), func(f *Ficha) (bool, error) {
		return removeAt(&f.Vitais.Registros, index), nil
	})
}

func (s *Store) AddMedAdministrada(ctx context.Context, m Medicacao) error {
	return s.update(ctx, change{section: SectionMeds, operation: "add_administrada"}, func(f *Ficha) (bool, error) {
		f.Meds.Administradas = appendItem(f.Meds.Administradas, m)
		return true, nil
	})
}

func (s *Store) RemoveMedAdministrada(ctx context.Context, index int) error {
	return s.update(ctx, removal(SectionMeds, index), func(f *Ficha) (bool, error) {
		return removeAt(&f.Meds.Administradas, index), nil
	})
}

func (s *Store) AddOutraMed(ctx context.Context, m Medicacao) error {
	return s.update(ctx, change{section: SectionMeds, operation: "add_outra"}, func(f *Ficha) (bool, error) {
		f.Meds.Outras = appendItem(f.Meds.Outras, m)
		return true, nil
	})
}

func (s *Store) RemoveOutraMed(ctx context.Context, index int) error {
	return s.update(ctx, removal(SectionMeds, index), func(f *Ficha) (bool, error) {
		return removeAt(&f.Meds.Outras, index), nil
	})
}

func (s *Store) AddFluido(ctx context.Context, fl Fluido) error {
	return s.update(ctx, change{section: SectionMeds, operation: "add_fluido"}, func(f *Ficha) (bool, error) {
		f.Meds.Fluidos = appendItem(f.Meds.Fluidos, fl)
		return true, nil
	})
}

func (s *Store) RemoveFluido(ctx context.Context, index int) error {
	return s.update(ctx, removal(SectionMeds, index), func(f *Ficha) (bool, error) {
		return removeAt(&f.Meds.Fluidos, index), nil
	})
}

func (s *Store) AddRpaDroga(ctx context.Context, d RPADroga) error {
	return s.update(ctx, change{section: SectionRPA, operation: "add_droga"}, func(f *Ficha) (bool, error) {
		f.RPA.Drogas = appendItem(f.RPA.Drogas, d)
		return true, nil
	})
}

func (s *Store) RemoveRpaDroga(ctx context.Context, index int) error {
	return s.update(ctx, removal(SectionRPA, index), func(f *Ficha) (bool, error) {
		return removeAt(&f.RPA.Drogas, index), nil
	})
}

func (s *Store) AddRpaMaterial(ctx context.Context, m RPAMaterial) error {
	return s.update(ctx, change{section: SectionRPA, operation: "add_material"}, func(f *Ficha) (bool, error) {
		f.RPA.Materiais = appendItem(f.RPA.Materiais, m)
		return true, nil
	})
}

func (s *Store) RemoveRpaMaterial(ctx context.Context, index int) error {
	return s.update(ctx, removal(SectionRPA, index), func(f *Ficha) (bool, error) {
		return removeAt(&f.RPA.Materiais, index), nil
	})
}

func removal(section Section, index int) change {
	return change{section: section, operation: "remove", index: &index}
}

func appendItem[T any](seq []T, item T) []T {
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq...)
	return append(out, item)
}

// removeAt deletes index from seq, shifting later entries down. It reports
// false and leaves seq alone when index is out of range.
func removeAt[T any](seq *[]T, index int) bool {
	current := *seq
	if index < 0 || index >= len(current) {
		return false
	}
	out := make([]T, 0, len(current)-1)
	out = append(out, current[:index]...)
	*seq = append(out, current[index+1:]...)
	return true
}
