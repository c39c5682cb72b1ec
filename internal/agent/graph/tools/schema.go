package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cloudwego/eino/schema"
	"github.com/google/jsonschema-go/jsonschema"
)

func float(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// identifier is a non-empty identifier string.
func identifier(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc, MinLength: intPtr(1)}
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func closed() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}

func object(desc string, props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          desc,
		Properties:           props,
		Required:             required,
		AdditionalProperties: closed(),
	}
}

// employeeProperties describes every writable top-level field of an employee record.
func employeeProperties() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"employee_id":   identifier("Unique employee identifier, e.g. EMP-001"),
		"first_name":    str("First name"),
		"last_name":     str("Last name"),
		"date_of_birth": str("Date of birth, YYYY-MM-DD"),
		"address": object("Home address", map[string]*jsonschema.Schema{
			"street":      str("Street and number"),
			"city":        str("City"),
			"state":       str("State or region"),
			"postal_code": str("Postal code"),
			"country":     str("Country"),
		}, "street", "city", "state", "postal_code", "country"),
		"contact_details": object("Contact details", map[string]*jsonschema.Schema{
			"email":        str("Work email address"),
			"phone_number": str("Phone number"),
		}, "email", "phone_number"),
		"job_details": object("Current position", map[string]*jsonschema.Schema{
			"job_title":       str("Job title"),
			"department":      str("Department"),
			"hire_date":       str("Hire date, YYYY-MM-DD"),
			"employment_type": str("Employment type, e.g. Full-Time, Part-Time, Contract"),
			"salary":          {Type: "number", Description: "Annual salary", Minimum: float(0)},
			"currency":        str("ISO 4217 currency code, e.g. USD"),
		}, "job_title", "department", "hire_date", "employment_type", "salary", "currency"),
		"work_location": object("Work location", map[string]*jsonschema.Schema{
			"nearest_office": str("Nearest office"),
			"is_remote":      {Type: "boolean", Description: "Whether the employee works remotely"},
		}, "nearest_office", "is_remote"),
		"reporting_manager": {
			Types:       []string{"string", "null"},
			Description: "employee_id of the reporting manager, or null",
		},
		"skills": {
			Type:        "array",
			Description: "Skills, most relevant first",
			Items:       str("Skill"),
		},
		"performance_reviews": {
			Type:        "array",
			Description: "Performance reviews in chronological order",
			Items: object("Performance review", map[string]*jsonschema.Schema{
				"review_date": str("Review date, YYYY-MM-DD"),
				"rating": {
					Type:        "number",
					Description: "Rating from 0 to 5",
					Minimum:     float(0),
					Maximum:     float(5),
				},
				"comments": str("Reviewer comments"),
			}, "review_date", "rating", "comments"),
		},
		"benefits": object("Benefits", map[string]*jsonschema.Schema{
			"health_insurance": str("Health insurance plan"),
			"retirement_plan":  str("Retirement plan"),
			"paid_time_off":    {Type: "integer", Description: "Paid time off in days", Minimum: float(0)},
		}, "health_insurance", "retirement_plan", "paid_time_off"),
		"emergency_contact": object("Emergency contact", map[string]*jsonschema.Schema{
			"name":         str("Contact name"),
			"relationship": str("Relationship to the employee"),
			"phone_number": str("Phone number"),
		}, "name", "relationship", "phone_number"),
		"notes": str("Free-text notes"),
	}
}

// EmployeeSchema is the schema of a complete employee record.
func EmployeeSchema() *jsonschema.Schema {
	return object("The structure of employee data.", employeeProperties(),
		"employee_id", "first_name", "last_name", "date_of_birth", "address",
		"contact_details", "job_details", "work_location", "skills",
		"performance_reviews", "benefits", "emergency_contact")
}

// PartialEmployeeSchema accepts any subset of top-level fields. Nested objects
// must still be complete because updates overwrite them whole.
func PartialEmployeeSchema() *jsonschema.Schema {
	return object("Fields to overwrite on the employee record.", employeeProperties())
}

func lookupSchema() *jsonschema.Schema {
	return object("", map[string]*jsonschema.Schema{
		"query": str("The search query"),
		"n": {
			Type:        "integer",
			Description: "The number of results to return (default 10)",
			Minimum:     float(1),
		},
	}, "query")
}

func updateSchema() *jsonschema.Schema {
	return object("", map[string]*jsonschema.Schema{
		"employee_id": identifier("ID of the employee to update, extracted from the request"),
		"updates":     PartialEmployeeSchema(),
	}, "employee_id", "updates")
}

// FormatInstructions tells the model how to shape arguments for s.
func FormatInstructions(s *jsonschema.Schema) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return "The arguments must be a JSON object that conforms to the JSON Schema below. " +
		"Do not add fields that are not in the schema and do not omit required fields.\n" +
		"```json\n" + string(b) + "\n```"
}

// toParamsOneOf converts a JSON Schema object into eino parameter infos.
func toParamsOneOf(s *jsonschema.Schema) *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(subParams(s))
}

func subParams(s *jsonschema.Schema) map[string]*schema.ParameterInfo {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(map[string]*schema.ParameterInfo, len(names))
	for _, name := range names {
		params[name] = toParameterInfo(s.Properties[name], required[name])
	}
	return params
}

func toParameterInfo(s *jsonschema.Schema, required bool) *schema.ParameterInfo {
	p := &schema.ParameterInfo{
		Type:     dataType(s),
		Desc:     s.Description,
		Required: required,
	}
	switch p.Type {
	case schema.Object:
		p.SubParams = subParams(s)
	case schema.Array:
		if s.Items != nil {
			p.ElemInfo = toParameterInfo(s.Items, false)
		}
	}
	for _, e := range s.Enum {
		p.Enum = append(p.Enum, fmt.Sprint(e))
	}
	return p
}

func dataType(s *jsonschema.Schema) schema.DataType {
	t := s.Type
	if t == "" {
		for _, candidate := range s.Types {
			if candidate != "null" {
				t = candidate
				break
			}
		}
	}
	switch t {
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	case "integer":
		return schema.Integer
	case "number":
		return schema.Number
	case "boolean":
		return schema.Boolean
	case "null":
		return schema.Null
	default:
		return schema.String
	}
}
