package service

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jobtrack/jobtrack/internal/model"
)

// Validation limits.
const (
	MaxTitleLength           = 256
	MaxCompanyLength         = 256
	MaxApplicationLinkLength = 2048
	MaxNameLength            = 256
	MaxEmailLength           = 320
)

// forbiddenLinkSchemes may never appear as an application link scheme.
var forbiddenLinkSchemes = []string{"javascript", "data", "vbscript", "file"}

func validateText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "must not be blank")
	}
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "too long")
	}
	return nil
}

// validateApplicationLink checks length and rejects script-capable schemes.
func validateApplicationLink(link string) error {
	if err := validateText("application_link", link, MaxApplicationLinkLength); err != nil {
		return err
	}

	lower := strings.ToLower(normalizeLink(link))
	scheme := lower
	if parsed, err := url.Parse(lower); err == nil && parsed.Scheme != "" {
		scheme = parsed.Scheme
	}
	for _, forbidden := range forbiddenLinkSchemes {
		if scheme == forbidden || strings.HasPrefix(lower, forbidden+":") {
			return invalid("application_link", "scheme "+forbidden+" is not allowed")
		}
	}

	return nil
}

// normalizeLink reduces link to what a browser would parse: ASCII tab and
// newline characters are removed anywhere, and leading and trailing control
// characters and spaces are trimmed.
func normalizeLink(link string) string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, link)
	return strings.TrimFunc(stripped, func(r rune) bool { return r <= 0x20 })
}

// validateJob checks every user-editable field of a job.
func validateJob(job *model.Job) error {
	if err := validateText("title", job.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateText("company", job.Company, MaxCompanyLength); err != nil {
		return err
	}
	if err := validateApplicationLink(job.ApplicationLink); err != nil {
		return err
	}
	if !job.Status.IsValid() {
		return invalid("status", "unknown status")
	}
	return nil
}

// parseStatus turns optional raw status text into a JobStatus.
func parseStatus(raw *string) (*model.JobStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := model.ParseJobStatus(*raw)
	if err != nil {
		return nil, invalid("status", "must be one of pending, accepted, rejected")
	}
	return &status, nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "must not be blank")
	}
	if len(email) > MaxEmailLength {
		return invalid("email", "too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "not a valid address")
	}
	return nil
}

func validateName(field, name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid(field, "too long")
	}
	return nil
}

// validateUser checks every user-editable field of a user.
func validateUser(user *model.User) error {
	if err := validateEmail(user.Email); err != nil {
		return err
	}
	if err := validateName("first_name", user.FirstName); err != nil {
		return err
	}
	return validateName("last_name", user.LastName)
}
