package tokenstore

// NewMemoryStore - хранилище на время жизни процесса, для тестов.
func NewMemoryStore() *Store {
	return &Store{backend: &memoryBackend{data: make(map[string]string)}}
}

type memoryBackend struct {
	data map[string]string
}

func (m *memoryBackend) get(key string) (string, bool, error) {
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *memoryBackend) set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memoryBackend) remove(keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}
