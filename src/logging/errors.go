package logging

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// IsRateLimit reports whether err came from a Discord (or any HTTP) rate limit.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rateErr *discordgo.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	if restCode(err) == 0 && restStatus(err) == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsCannotDM reports whether Discord refused a direct message, usually because
// the recipient has DMs from server members disabled.
func IsCannotDM(err error) bool {
	return restCode(err) == discordgo.ErrCodeCannotSendMessagesToThisUser
}

// IsMissingPermissions reports whether the bot itself lacks a permission for the call.
func IsMissingPermissions(err error) bool {
	if restCode(err) == discordgo.ErrCodeMissingPermissions || restCode(err) == discordgo.ErrCodeMissingAccess {
		return true
	}
	return restStatus(err) == http.StatusForbidden
}

// IsUnknownMessage reports whether the referenced message no longer exists.
func IsUnknownMessage(err error) bool {
	return restCode(err) == discordgo.ErrCodeUnknownMessage
}

// IsNotFound reports whether Discord answered 404 for the resource.
func IsNotFound(err error) bool {
	return restStatus(err) == http.StatusNotFound
}

// IsTransient reports whether a retry could plausibly succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimit(err) {
		return true
	}
	if status := restStatus(err); status >= 500 {
		return true
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		return false
	}
	// Network-level failures never reach a RESTError.
	return true
}

func restCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code
	}
	return 0
}

func restStatus(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}
