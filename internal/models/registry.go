package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidProfile   = errors.New("invalid item profile")
	ErrInvalidThreshold = errors.New("invalid gas threshold")
	ErrUnknownDefault   = errors.New("default label is not registered")
)

// Registry is the immutable lookup table from item label to storage profile.
// It is built once at startup and shared read-only between requests.
type Registry struct {
	profiles     map[string]ItemProfile
	labels       []string
	defaultLabel string
	thresholds   GasThresholds
}

// NewRegistry validates the catalog and builds a registry
func NewRegistry(profiles []ItemProfile, defaultLabel string, thresholds GasThresholds) (*Registry, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		profiles:   make(map[string]ItemProfile, len(profiles)),
		labels:     make([]string, 0, len(profiles)),
		thresholds: thresholds,
	}
	for _, p := range profiles {
		p.Label = normalizeLabel(p.Label)
		p.Zone = strings.ToUpper(p.Zone)
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.profiles[p.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %s", ErrInvalidProfile, p.Label)
		}
		r.profiles[p.Label] = p
		r.labels = append(r.labels, p.Label)
	}

	r.defaultLabel = normalizeLabel(defaultLabel)
	if _, ok := r.profiles[r.defaultLabel]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefault, defaultLabel)
	}
	return r, nil
}

// DefaultRegistry returns the registry built from the built-in catalog
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultProfiles, DefaultLabel, DefaultGasThresholds)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the profile for a label, falling back to the default profile
func (r *Registry) Resolve(label string) ItemProfile {
	if p, ok := r.Lookup(label); ok {
		return p
	}
	return r.profiles[r.defaultLabel]
}

// Lookup returns the profile for a label and whether it is registered
func (r *Registry) Lookup(label string) (ItemProfile, bool) {
	if p, ok := r.profiles[label]; ok {
		return p, true
	}
	p, ok := r.profiles[normalizeLabel(label)]
	return p, ok
}

// GasThreshold returns the spoilage threshold for a gas
func (r *Registry) GasThreshold(g Gas) float64 {
	return r.thresholds.Get(g)
}

// Thresholds returns a copy of the gas thresholds
func (r *Registry) Thresholds() GasThresholds {
	return r.thresholds
}

// DefaultLabel returns the label used for unknown items
func (r *Registry) DefaultLabel() string {
	return r.defaultLabel
}

// Labels returns the registered labels in registration order
func (r *Registry) Labels() []string {
	labels := make([]string, len(r.labels))
	copy(labels, r.labels)
	return labels
}

// Profiles returns the registered profiles in registration order
func (r *Registry) Profiles() []ItemProfile {
	profiles := make([]ItemProfile, 0, len(r.labels))
	for _, l := range r.labels {
		profiles = append(profiles, r.profiles[l])
	}
	return profiles
}

// normalizeLabel lowercases a label and joins words with underscores
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.FieldsFunc(label, isLabelSeparator), "_")
}

// DisplayName formats a label for humans: "sweet_potato" -> "Sweet Potato"
func DisplayName(label string) string {
	words := strings.FieldsFunc(strings.ToLower(label), isLabelSeparator)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(first)) + w[size:]
	}
	return strings.Join(words, " ")
}

func isLabelSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
