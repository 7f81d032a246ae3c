package store

// Stores groups the file stores rooted at one home directory.
type Stores struct {
	Sessions *SessionFileStore
	Accounts *AccountFileStore
}

// Open creates dir if needed and returns the stores rooted there.
func Open(dir string) (*Stores, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &Stores{
		Sessions: NewSessionFileStore(dir),
		Accounts: NewAccountFileStore(dir),
	}, nil
}
