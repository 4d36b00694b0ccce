package machine

import (
	"fmt"
	"time"
)

// Machine binds a record to its store. It satisfies vm.MachineState.
type Machine struct {
	store  *Store
	record *Record
	now    func() time.Time
}

// Open loads the record for name, or starts a new one if none exists.
// The new record is not saved until SetID is called.
func Open(store *Store, name, storagePool string) (*Machine, error) {
	rec, err := store.Load(name)
	switch {
	case err == nil:
	case isNotFound(err):
		rec = &Record{Name: name, Provider: ProviderLibvirt, StoragePool: storagePool}
	default:
		return nil, err
	}

	return &Machine{store: store, record: rec, now: time.Now}, nil
}

// Record returns a copy of the current record.
func (m *Machine) Record() Record {
	return *m.record
}

// SetID records the domain id and saves the record before returning.
func (m *Machine) SetID(id string) error {
	if id == "" {
		return fmt.Errorf("domain id is required")
	}

	prev := *m.record
	m.record.ID = id
	m.record.CreatedAt = m.now().UTC()

	if err := m.store.Save(m.record); err != nil {
		*m.record = prev
		return err
	}

	return nil
}
