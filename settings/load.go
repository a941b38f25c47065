package settings

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/oerror"
)

const (
	sectionGeneral = "General"
	sectionWeapons = "WeaponMultipliers"
	sectionRaces   = "Races"

	keyUnarmed     = "Unarmed"
	keyPowerAttack = "PowerAttack"
)

type (
	floatField struct {
		key string
		get func(s *Settings) *float32
	}
	intField struct {
		key string
		get func(s *Settings) *int32
	}
	boolField struct {
		key string
		get func(s *Settings) *bool
	}
)

var floatFields = [...]floatField{
	{"ShoveMagnitude", func(s *Settings) *float32 { return &s.ShoveMagnitude }},
	{"ShoveDuration", func(s *Settings) *float32 { return &s.ShoveDuration }},
	{"ApplyCurrentMinVelocity", func(s *Settings) *float32 { return &s.ApplyCurrentMinVelocity }},
	{"MinDurationScale", func(s *Settings) *float32 { return &s.MinDurationScale }},
	{"MinShoveSeparationDelta", func(s *Settings) *float32 { return &s.MinShoveSeparationDelta }},
	{"MinSeparationDistance", func(s *Settings) *float32 { return &s.MinSeparationDistance }},
	{"SeparationPushDuration", func(s *Settings) *float32 { return &s.SeparationPushDuration }},
	{"SeparationMaxVelocity", func(s *Settings) *float32 { return &s.SeparationMaxVelocity }},
}

var intFields = [...]intField{
	{"ShoveRetries", func(s *Settings) *int32 { return &s.ShoveRetries }},
	{"ShoveRetryDelayFrames", func(s *Settings) *int32 { return &s.ShoveRetryDelayFrames }},
	{"ShoveInitialDelayFrames", func(s *Settings) *int32 { return &s.ShoveInitialDelayFrames }},
	{"AttackDeferralFrames", func(s *Settings) *int32 { return &s.AttackDeferralFrames }},
	{"SeparationRetries", func(s *Settings) *int32 { return &s.SeparationRetries }},
	{"SeparationInitialDelayFrames", func(s *Settings) *int32 { return &s.SeparationInitialDelayFrames }},
	{"SeparationRetryDelayFrames", func(s *Settings) *int32 { return &s.SeparationRetryDelayFrames }},
}

var boolFields = [...]boolField{
	{"DisableInFirstPerson", func(s *Settings) *bool { return &s.DisableInFirstPerson }},
	{"EnforceMinSeparation", func(s *Settings) *bool { return &s.EnforceMinSeparation }},
	{"StrictArchetypeExclusion", func(s *Settings) *bool { return &s.StrictArchetypeExclusion }},
}

// Load reads and parses the configuration file at path. The returned settings are never nil:
// if the file is missing or malformed, the defaults are returned together with the error.
func Load(path string, r FormResolver, log *slog.Logger) (*Settings, error) {
	if log == nil {
		log = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("config file not found, using defaults", "path", path)
		}
		return Default(), err
	}
	s, err := Parse(data, FormatOf(path), r, log)
	if err != nil {
		return Default(), err
	}
	return s, nil
}

// Parse builds a new Settings from the encoded configuration. Missing keys keep their default,
// invalid values are skipped with a warning, and every value is clamped into its sane range.
func Parse(data []byte, format Format, r FormResolver, log *slog.Logger) (*Settings, error) {
	if log == nil {
		log = slog.Default()
	}
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	s := Default()
	for _, f := range floatFields {
		if v, ok := doc.value(sectionGeneral, f.key); ok {
			if n, ok := asFloat(v); ok {
				*f.get(s) = float32(n)
			} else {
				log.Warn("invalid number in config", "key", f.key, "value", v)
			}
		}
	}
	for _, f := range intFields {
		if v, ok := doc.value(sectionGeneral, f.key); ok {
			if n, ok := asInt(v); ok {
				*f.get(s) = int32(max(min(n, 1<<31-1), -1<<31))
			} else {
				log.Warn("invalid integer in config", "key", f.key, "value", v)
			}
		}
	}
	for _, f := range boolFields {
		if v, ok := doc.value(sectionGeneral, f.key); ok {
			if b, ok := asBool(v); ok {
				*f.get(s) = b
			} else {
				log.Warn("invalid boolean in config", "key", f.key, "value", v)
			}
		}
	}

	parseRaces(doc, "Allow", s.AllowRaces, r, log)
	parseRaces(doc, "Deny", s.DenyRaces, r, log)
	parseWeapons(doc, s, r, log)

	s.clamp()
	return s, nil
}

func parseRaces(doc document, key string, into map[entity.FormID]struct{}, r FormResolver, log *slog.Logger) {
	v, ok := doc.value(sectionRaces, key)
	if !ok {
		return
	}
	specs, ok := asList(v)
	if !ok {
		log.Warn("invalid race list in config", "key", key, "value", v)
		return
	}
	for _, spec := range specs {
		id, err := ParseFormSpec(spec, r)
		if err != nil {
			log.Warn("skipping race", "list", key, "spec", spec, "err", err)
			continue
		}
		into[id] = struct{}{}
	}
}

func parseWeapons(doc document, s *Settings, r FormResolver, log *slog.Logger) {
	t, ok := doc.section(sectionWeapons)
	if !ok {
		return
	}
	for _, key := range t.keys {
		v := t.values[strings.ToLower(key)]
		n, ok := asFloat(v)
		if !ok {
			log.Warn("invalid weapon multiplier in config", "key", key, "value", v)
			continue
		}

		switch {
		case strings.EqualFold(key, keyUnarmed):
			s.UnarmedMultiplier = float32(n)
			continue
		case strings.EqualFold(key, keyPowerAttack):
			s.PowerAttackMultiplier = float32(n)
			continue
		}

		if n <= 0 {
			log.Warn("skipping non-positive weapon multiplier", "key", key, "value", n)
			continue
		}
		id, err := ParseFormSpec(key, r)
		if err != nil {
			log.Warn("skipping weapon multiplier", "key", key, "err", err)
			continue
		}
		s.WeaponKeywordMultipliers[id] = float32(n)
	}
}

// ErrNoPath is returned when reloading a Provider that was not created from a file.
var ErrNoPath = oerror.New("settings provider has no config path")
