package store

// FastKDF lowers the scrypt cost so tests stay quick.
func FastKDF(s *SessionFileStore) { s.kdf = kdfParams{N: 1 << 10, R: 8, P: 1} }
