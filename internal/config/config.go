package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// CardData is a card data file: the entities an operator wants written.
type CardData struct {
	Link      string          `json:"link,omitempty" toml:"link" yaml:"link"`
	Personal  *PersonalEntry  `json:"personal,omitempty" toml:"personal" yaml:"personal"`
	Emergency *EmergencyEntry `json:"emergency,omitempty" toml:"emergency" yaml:"emergency"`
	Policies  []PolicyEntry   `json:"policies,omitempty" toml:"policies" yaml:"policies"`
}

type PersonalEntry struct {
	Name         string `json:"name,omitempty" toml:"name" yaml:"name"`
	Phone        string `json:"phone,omitempty" toml:"phone" yaml:"phone"`
	Email        string `json:"email,omitempty" toml:"email" yaml:"email"`
	Organization string `json:"organization,omitempty" toml:"organization" yaml:"organization"`
	JobTitle     string `json:"job_title,omitempty" toml:"job_title" yaml:"job_title"`
	Address      string `json:"address,omitempty" toml:"address" yaml:"address"`
	Website      string `json:"website,omitempty" toml:"website" yaml:"website"`
	Notes        string `json:"notes,omitempty" toml:"notes" yaml:"notes"`
}

type EmergencyEntry struct {
	Name              string `json:"name,omitempty" toml:"name" yaml:"name"`
	Phone             string `json:"phone,omitempty" toml:"phone" yaml:"phone"`
	BloodGroup        string `json:"blood_group,omitempty" toml:"blood_group" yaml:"blood_group"`
	Location          string `json:"location,omitempty" toml:"location" yaml:"location"`
	Relationship      string `json:"relationship,omitempty" toml:"relationship" yaml:"relationship"`
	AlternateContact  string `json:"alternate_contact,omitempty" toml:"alternate_contact" yaml:"alternate_contact"`
	MedicalConditions string `json:"medical_conditions,omitempty" toml:"medical_conditions" yaml:"medical_conditions"`
	Allergies         string `json:"allergies,omitempty" toml:"allergies" yaml:"allergies"`
}

type PolicyEntry struct {
	Policyholder string `json:"policyholder,omitempty" toml:"policyholder" yaml:"policyholder"`
	Age          string `json:"age,omitempty" toml:"age" yaml:"age"`
	Insurer      string `json:"insurer,omitempty" toml:"insurer" yaml:"insurer"`
	PolicyType   string `json:"policy_type,omitempty" toml:"policy_type" yaml:"policy_type"`
	Premium      string `json:"premium,omitempty" toml:"premium" yaml:"premium"`
	SumAssured   string `json:"sum_assured,omitempty" toml:"sum_assured" yaml:"sum_assured"`
	StartDate    string `json:"start_date,omitempty" toml:"start_date" yaml:"start_date"`
	EndDate      string `json:"end_date,omitempty" toml:"end_date" yaml:"end_date"`
	Status       string `json:"status,omitempty" toml:"status" yaml:"status"`
	Contact      string `json:"contact,omitempty" toml:"contact" yaml:"contact"`
	Mobile       string `json:"mobile,omitempty" toml:"mobile" yaml:"mobile"`
	PolicyNumber string `json:"policy_number,omitempty" toml:"policy_number" yaml:"policy_number"`
}

// LoadCardData reads a card data file. .yaml and .yml files are YAML,
// anything else is TOML.
func LoadCardData(path string) (CardData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CardData{}, fmt.Errorf("card data load failed (%s): %w", path, err)
	}
	var cfg CardData
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return CardData{}, fmt.Errorf("card data parse failed (%s): %w", path, err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return CardData{}, fmt.Errorf("card data parse failed (%s): %w", path, err)
		}
	}
	if err := ValidateCardData(cfg); err != nil {
		return CardData{}, fmt.Errorf("card data invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// ValidateCardData rejects files that would write nothing or that repeat a
// policy number.
func ValidateCardData(cfg CardData) error {
	contents := cfg.Contents()
	if contents.IsEmpty() {
		return fmt.Errorf("card data has no entries")
	}
	seen := make(map[string]int, len(cfg.Policies))
	for i, p := range cfg.Policies {
		num := strings.TrimSpace(p.PolicyNumber)
		if num == "" && strings.TrimSpace(p.Policyholder) == "" {
			return fmt.Errorf("policies[%d] needs a policyholder or policy number", i)
		}
		if num == "" {
			continue
		}
		if first, ok := seen[num]; ok {
			return fmt.Errorf("policies[%d] repeats policy number %s from policies[%d]", i, num, first)
		}
		seen[num] = i
	}
	return nil
}
