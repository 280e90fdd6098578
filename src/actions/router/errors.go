package router

import (
	"errors"
	"fmt"

	"github.com/mrpepsi1069/LockerRoom/src/discord"
)

// UserError is shown to the invoker as an ephemeral error embed.
type UserError struct {
	Title   string
	Message string
}

func (e *UserError) Error() string { return e.Title + ": " + e.Message }

// Fail builds a UserError with the default title.
func Fail(format string, args ...any) error {
	return &UserError{Title: "Error", Message: fmt.Sprintf(format, args...)}
}

// FailTitled builds a UserError with a custom title.
func FailTitled(title, format string, args ...any) error {
	return &UserError{Title: title, Message: fmt.Sprintf(format, args...)}
}

// DeniedError reports an invoker below the command's permission tier.
type DeniedError struct {
	Required discord.Level
}

func (e *DeniedError) Error() string { return "permission denied: requires " + e.Required.String() }

// Require fails unless the invoker holds at least level.
func (c *Context) Require(level discord.Level) error {
	if c.Level >= level {
		return nil
	}
	return &DeniedError{Required: level}
}

func asUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}
