package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	tokens map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

func (m *MockStore) SetToken(facility string, token string) error {
	m.tokens[NormalizeFacility(facility)] = token
	return nil
}

func (m *MockStore) GetToken(facility string) (string, error) {
	token, ok := m.tokens[NormalizeFacility(facility)]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MockStore) DeleteToken(facility string) error {
	key := NormalizeFacility(facility)
	if _, ok := m.tokens[key]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, key)
	return nil
}
