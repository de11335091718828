package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "station":
		return stationTemplate, nil
	case "card", "card-toml":
		return cardTemplate, nil
	case "card-yaml":
		return cardYAMLTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const stationTemplate = `addr = ":8080"
cors_origins = ["http://localhost:3000"]
log_level = "info"

user_id = 1
display_name = "Jane Doe"
profile_base_url = "https://vcard.example.com:3000"

tag_path = "local/card.ndef"
tag_id = ""
tag_capacity = 868
tag_image = "raw"

backend_url = "http://127.0.0.1:3000"
backend_timeout_ms = 15000
backend_retries = 2

redis_addr = ""
redis_ttl_seconds = 300

readlog_path = "local/reads.db"
`

const cardTemplate = `link = "https://vcard.example.com:3000/profile/jane-doe"

[personal]
name = "Jane Doe"
phone = "+91 98765 43210"
email = "jane@example.com"
organization = "Acme Labs"
job_title = "Engineer"

[emergency]
name = "Raj Doe"
phone = "+91 90000 00001"
blood_group = "O+"
relationship = "Brother"

[[policies]]
policyholder = "Jane Doe"
insurer = "LIC"
policy_type = "Health"
premium = "₹25000"
sum_assured = "₹500000"
start_date = "2024-01-01"
end_date = "2034-01-01"
status = "Active"
policy_number = "POL-1"
`

const cardYAMLTemplate = `link: https://vcard.example.com:3000/profile/jane-doe
personal:
  name: Jane Doe
  phone: "+91 98765 43210"
  email: jane@example.com
emergency:
  name: Raj Doe
  phone: "+91 90000 00001"
  blood_group: O+
policies:
  - policyholder: Jane Doe
    insurer: LIC
    status: Active
    policy_number: POL-1
`
