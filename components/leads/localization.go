package leads

import "strings"

// Quality and status labels shown in widget chrome. The backend values stay
// Russian on the wire; English is a display-layer concern only.
var (
	qualityLabelsEN = map[string]string{
		QualityHigh:   "high",
		QualityGood:   "good",
		QualityMedium: "medium",
		QualityLow:    "low",
	}
	statusLabelsEN = map[string]string{
		StatusNew:        "new",
		StatusInProgress: "in progress",
		StatusProcessed:  "processed",
		StatusRejected:   "rejected",
	}
)

// QualityLabel localizes a quality value. Unknown values and Russian locales
// pass through unchanged.
func QualityLabel(quality, locale string) string {
	if localeBase(locale) != "en" {
		return quality
	}
	if label, ok := qualityLabelsEN[quality]; ok {
		return label
	}
	return quality
}

// StatusLabel localizes a status value the same way.
func StatusLabel(status, locale string) string {
	if localeBase(locale) != "en" {
		return status
	}
	if label, ok := statusLabelsEN[status]; ok {
		return label
	}
	return status
}

// ResolveLocalizedValue selects the best translation for the provided locale
// and falls back to the supplied value. Keys are matched case-insensitively,
// and language-region pairs (`ru-ru`) automatically fall back to their base
// language (`ru`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	return fallback
}

func (def *WidgetDefinition) normalizeLocalizedFields() {
	def.NameLocalized = normalizeLocaleMap(def.NameLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
}

// NameForLocale returns the display name for the requested locale with
// graceful fallback to the default name.
func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the localized description if available.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func localeBase(locale string) string {
	locale = normalizeLocale(locale)
	if idx := strings.Index(locale, "-"); idx > 0 {
		return locale[:idx]
	}
	return locale
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
