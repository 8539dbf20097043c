package model

import "time"

// Consent is one entry in an account's append-only consent history,
// captured at registration time.
type Consent struct {
	Type      string    `json:"consent_type"`
	Granted   bool      `json:"granted"`
	GrantedAt time.Time `json:"granted_at"`
}

// consentLabels maps the consent keys submitted by registration forms to
// their display names. Unknown keys are recorded as-is.
var consentLabels = map[string]string{
	"agreed_terms":             "Terms of Service and Privacy Policy",
	"consent_background_check": "Background Check",
	"wants_updates":            "Receive Updates",
}

// BuildConsents turns the consent keys granted at registration into consent
// records stamped with the current time.
func BuildConsents(keys []string) []Consent {
	consents := make([]Consent, 0, len(keys))
	now := time.Now()
	for _, key := range keys {
		label, ok := consentLabels[key]
		if !ok {
			label = key
		}
		consents = append(consents, Consent{
			Type:      label,
			Granted:   true,
			GrantedAt: now,
		})
	}
	return consents
}
