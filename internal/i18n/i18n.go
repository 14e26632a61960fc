// Package i18n holds the static, per-locale texts used in notifications and API responses.
package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"xconsultation/internal/domain"
)

//go:embed locales.yaml
var localesYAML []byte

// Operation names a localized notification
type Operation string

const (
	ContactConfirmation     Operation = "contact_confirmation"
	AppointmentConfirmation Operation = "appointment_confirmation"
)

// Response names a localized API response message
type Response string

const (
	ContactSubmitted     Response = "contact_submitted"
	AppointmentSubmitted Response = "appointment_submitted"
	DateTimeUpdated      Response = "datetime_updated"
	RequiredFields       Response = "required_fields"
	PhoneRequired        Response = "phone_required"
	AppointmentNotFound  Response = "appointment_not_found"
	GenericError         Response = "generic_error"
	RateLimited          Response = "rate_limited"
)

var allResponses = []Response{
	ContactSubmitted, AppointmentSubmitted, DateTimeUpdated,
	RequiredFields, PhoneRequired, AppointmentNotFound, GenericError, RateLimited,
}

// Texts is the localized content of one notification
type Texts struct {
	Subject  string `yaml:"subject"`
	Title    string `yaml:"title"`
	Greeting string `yaml:"greeting"`
	Body     string `yaml:"body"`
	Thanks   string `yaml:"thanks"`
	Footer   string `yaml:"footer"`
}

type locale struct {
	Name                    string              `yaml:"name"`
	ContactConfirmation     Texts               `yaml:"contact_confirmation"`
	AppointmentConfirmation Texts               `yaml:"appointment_confirmation"`
	Responses               map[Response]string `yaml:"responses"`
}

// Catalog maps every supported language to its texts
type Catalog struct {
	locales map[domain.Language]locale
}

var defaultCatalog = mustParse(localesYAML)

// Parse decodes a locale table and checks that every supported language is complete
func Parse(data []byte) (*Catalog, error) {
	var raw map[domain.Language]locale
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}
	for _, lang := range domain.SupportedLanguages {
		loc, ok := raw[lang]
		if !ok {
			return nil, fmt.Errorf("locale %q missing", lang)
		}
		if loc.Name == "" {
			return nil, fmt.Errorf("locale %q: name missing", lang)
		}
		for op, texts := range map[Operation]Texts{
			ContactConfirmation:     loc.ContactConfirmation,
			AppointmentConfirmation: loc.AppointmentConfirmation,
		} {
			if texts.Subject == "" || texts.Title == "" || texts.Body == "" {
				return nil, fmt.Errorf("locale %q: %s incomplete", lang, op)
			}
		}
		for _, key := range allResponses {
			if loc.Responses[key] == "" {
				return nil, fmt.Errorf("locale %q: response %q missing", lang, key)
			}
		}
	}
	return &Catalog{locales: raw}, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) locale(lang domain.Language) locale {
	if loc, ok := c.locales[lang]; ok {
		return loc
	}
	return c.locales[domain.DefaultLanguage]
}

// Lookup returns the texts of op in lang, falling back to the default language
func (c *Catalog) Lookup(op Operation, lang domain.Language) Texts {
	loc := c.locale(lang)
	switch op {
	case ContactConfirmation:
		return loc.ContactConfirmation
	case AppointmentConfirmation:
		return loc.AppointmentConfirmation
	}
	return Texts{}
}

// Message returns the response text for key in lang
func (c *Catalog) Message(key Response, lang domain.Language) string {
	return c.locale(lang).Responses[key]
}

// LanguageName returns the display name of lang
func (c *Catalog) LanguageName(lang domain.Language) string {
	return c.locale(lang).Name
}

// Lookup uses the embedded catalog
func Lookup(op Operation, lang domain.Language) Texts {
	return defaultCatalog.Lookup(op, lang)
}

// Message uses the embedded catalog
func Message(key Response, lang domain.Language) string {
	return defaultCatalog.Message(key, lang)
}

// LanguageName uses the embedded catalog
func LanguageName(lang domain.Language) string {
	return defaultCatalog.LanguageName(lang)
}
