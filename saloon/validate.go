package saloon

import "strings"

// Validate checks that name, location and saloon_url are not
// blank, in that order. The first blank field decides the error.
func (payload SaloonPayload) Validate() error {
	return validateFields(
		field{"name", payload.Name},
		field{"location", payload.Location},
		field{"saloon_url", payload.SaloonURL},
	)
}

// Validate checks that service_name and service_description
// are not blank, in that order
func (payload ServicePayload) Validate() error {
	return validateFields(
		field{"service_name", payload.ServiceName},
		field{"service_description", payload.ServiceDescription},
	)
}

// ValidateOwner checks that an owner token can be assigned to a new saloon
func ValidateOwner(owner string) error {
	if owner == "" {
		return BadRequest("owner must not be empty")
	}

	return nil
}

type field struct {
	name  string
	value string
}

func validateFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return BadRequest("%s must not be empty", f.name)
		}
	}

	return nil
}
