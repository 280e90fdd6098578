package poll

import (
	"fmt"
	"strconv"
	"strings"
)

const customIDPrefix = "poll"

// CustomIDPrefix starts every poll button id.
const CustomIDPrefix = customIDPrefix + ":"

// CustomID encodes a button id as poll:<id>:<index>.
func CustomID(pollID string, option int) string {
	return customIDPrefix + ":" + pollID + ":" + strconv.Itoa(option)
}

// IsCustomID reports whether id belongs to a poll button.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}

func ParseCustomID(id string) (pollID string, option int, err error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[1] == "" {
		return "", 0, fmt.Errorf("%w: malformed button id %q", ErrInvalidOption, id)
	}
	option, err = strconv.Atoi(parts[2])
	if err != nil || option < 0 || option >= MaxOptions {
		return "", 0, fmt.Errorf("%w: bad option in %q", ErrInvalidOption, id)
	}
	return parts[1], option, nil
}
