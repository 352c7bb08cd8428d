package valueobjects

import (
	"errors"
	"strings"
)

// ItemID is a value object identifying a learning item. The identifier is the
// item's category tag (e.g. "kinematics"), a lowercase slug. Value objects are
// immutable and have no identity beyond their value.
type ItemID struct {
	value string
}

// NewItemID creates an ItemID from a category tag, normalizing case and
// surrounding whitespace.
func NewItemID(tag string) (ItemID, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ItemID{}, errors.New("item ID cannot be empty")
	}
	if !isValidSlug(tag) {
		return ItemID{}, errors.New("item ID must contain only lowercase letters, digits, '-' and '_'")
	}
	return ItemID{value: tag}, nil
}

// String returns the string representation of the ItemID
func (id ItemID) String() string {
	return id.value
}

// Equals checks if two ItemIDs are equal
func (id ItemID) Equals(other ItemID) bool {
	return id.value == other.value
}

// Less provides the stable secondary ordering used for deterministic
// tie-breaking during selection.
func (id ItemID) Less(other ItemID) bool {
	return id.value < other.value
}

// IsZero checks if the ItemID is the zero value
func (id ItemID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ItemID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ItemID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ItemID must be a string")
	}
	parsed, err := NewItemID(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// isValidSlug validates the category tag character set
func isValidSlug(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
