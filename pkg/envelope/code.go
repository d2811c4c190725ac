package envelope

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Code is a result code of the form "<Class>-<Number>", e.g. "S-1" or "F-4".
type Code string

const (
	ClassSuccess = "S"
	ClassFailure = "F"
)

var codePattern = regexp.MustCompile(`^[A-Z]-[0-9]+$`)

// SuccessCode returns the S-class code with the given number.
func SuccessCode(n int) Code {
	return MustCode(ClassSuccess, n)
}

// FailureCode returns the F-class code with the given number.
func FailureCode(n int) Code {
	return MustCode(ClassFailure, n)
}

// MustCode builds a code from its parts and panics when the result is malformed.
func MustCode(class string, n int) Code {
	code, err := ParseCode(fmt.Sprintf("%s-%d", class, n))
	if err != nil {
		panic(err)
	}
	return code
}

// ParseCode validates raw against the result code pattern.
func ParseCode(raw string) (Code, error) {
	value := strings.TrimSpace(raw)
	if !codePattern.MatchString(value) {
		return "", fmt.Errorf("invalid result code %q", raw)
	}
	return Code(value), nil
}

// Valid reports whether the code matches the result code pattern.
func (c Code) Valid() bool {
	return codePattern.MatchString(string(c))
}

// Class returns the letter before the dash, or "" for malformed codes.
func (c Code) Class() string {
	if !c.Valid() {
		return ""
	}
	return string(c)[:1]
}

// Number returns the numeric part, or -1 for malformed codes.
func (c Code) Number() int {
	if !c.Valid() {
		return -1
	}
	n, err := strconv.Atoi(string(c)[2:])
	if err != nil {
		return -1
	}
	return n
}

func (c Code) IsSuccess() bool {
	return c.Class() == ClassSuccess
}

func (c Code) IsFailure() bool {
	return c.Valid() && !c.IsSuccess()
}

func (c Code) String() string {
	return string(c)
}
