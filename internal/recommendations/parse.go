package recommendations

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID accepts a non-empty run of ASCII digits that fits in an int64.
// Signs, spaces and other characters are rejected.
func ParseID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, fmt.Errorf("%w: id %q must be a non-negative integer", ErrInvalidInput, raw)
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is out of range", ErrInvalidInput, raw)
	}
	return id, nil
}

// ParseTypeID accepts "1", "2" or "3".
func ParseTypeID(raw string) (TypeID, error) {
	switch raw {
	case "1", "2", "3":
		return TypeID(raw[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: type_id must be one of 1, 2, 3", ErrInvalidInput)
}

// ParseStatus accepts "true" or "false" in any letter case.
func ParseStatus(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: status must be true or false", ErrInvalidInput)
}
