package models

import (
	"fmt"
	"time"
)

// PrefCategory groups sensory preferences by modality
type PrefCategory string

const (
	PrefSound   PrefCategory = "sound"
	PrefLight   PrefCategory = "light"
	PrefTexture PrefCategory = "texture"
	PrefMotion  PrefCategory = "motion"
)

// SensoryPreference records a tolerance/comfort setting for one sensory
// modality, e.g. {sound, "background noise", intensity 2}.
type SensoryPreference struct {
	ID        string       `json:"id"`
	Category  PrefCategory `json:"category"`
	Label     string       `json:"label"`
	Intensity int          `json:"intensity"` // 1 (avoid) .. 5 (seek out)
	UpdatedAt time.Time    `json:"updated_at"`
}

func (p *SensoryPreference) Validate() error {
	switch p.Category {
	case PrefSound, PrefLight, PrefTexture, PrefMotion:
	default:
		return fmt.Errorf("unknown preference category %q", p.Category)
	}
	if p.Label == "" {
		return fmt.Errorf("preference label cannot be empty")
	}
	if p.Intensity < 1 || p.Intensity > 5 {
		return fmt.Errorf("intensity must be between 1 and 5")
	}
	return nil
}
