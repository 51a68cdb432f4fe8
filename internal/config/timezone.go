package config

import (
	"time"

	"golang.org/x/text/language"
)

// TimeZone holds localization settings.
type TimeZone struct {
	LanguageCode string `env:"LANGUAGE_CODE" envDefault:"en-us" validate:"language_code" yaml:"language_code"`
	TimeZone     string `env:"TIME_ZONE" envDefault:"UTC" validate:"timezone" yaml:"time_zone"`
	UseI18N      bool   `env:"USE_I18N" envDefault:"true" yaml:"use_i18n"`
	UseTZ        bool   `env:"USE_TZ" envDefault:"true" yaml:"use_tz"`
}

// Language returns the parsed language tag, or language.Und if the code is
// invalid.
func (t TimeZone) Language() language.Tag {
	tag, err := language.Parse(t.LanguageCode)
	if err != nil {
		return language.Und
	}
	return tag
}

// Location returns the configured zone. Stored datetimes are UTC when
// UseTZ is set, otherwise they are in this zone.
func (t TimeZone) Location() *time.Location {
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
