package storage

// MemoryStorage is an in-process map. Setting Err makes every operation fail
// with it, which simulates quota or permission errors.
type MemoryStorage struct {
	Items map[string]string
	Err   error

	Gets, Sets, Removes int
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Items: map[string]string{}}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.Gets++
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.Items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.Sets++
	if m.Err != nil {
		return m.Err
	}
	if m.Items == nil {
		m.Items = map[string]string{}
	}
	m.Items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.Removes++
	if m.Err != nil {
		return m.Err
	}
	delete(m.Items, key)
	return nil
}
