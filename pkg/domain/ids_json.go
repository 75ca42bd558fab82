package domain

import "github.com/google/uuid"

// Text marshaling so typed ids round-trip as canonical UUID strings in JSON
// and JSONB documents rather than as byte arrays.

func (id RecordID) MarshalText() ([]byte, error)   { return []byte(uuid.UUID(id).String()), nil }
func (id SubjectID) MarshalText() ([]byte, error)  { return []byte(uuid.UUID(id).String()), nil }
func (id UserID) MarshalText() ([]byte, error)     { return []byte(uuid.UUID(id).String()), nil }
func (id ReviewerID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }

func (id *RecordID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = RecordID(u)
	return nil
}

func (id *SubjectID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = SubjectID(u)
	return nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id *ReviewerID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ReviewerID(u)
	return nil
}
