package agenttest

import "github.com/hr-agent-core/server/internal/agent/model"

// Employee returns a complete record with the given id and name.
func Employee(id, first, last string) *model.Employee {
	manager := "EMP-000"
	return &model.Employee{
		EmployeeID:  id,
		FirstName:   first,
		LastName:    last,
		DateOfBirth: "1990-04-12",
		Address: model.Address{
			Street:     "12 Market St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "USA",
		},
		ContactDetails: model.ContactDetails{
			Email:       first + "@example.com",
			PhoneNumber: "+1-555-0100",
		},
		JobDetails: model.JobDetails{
			JobTitle:       "Software Engineer",
			Department:     "IT",
			HireDate:       "2020-01-15",
			EmploymentType: "Full-Time",
			Salary:         90000,
			Currency:       "USD",
		},
		WorkLocation:     model.WorkLocation{NearestOffice: "Chicago", IsRemote: true},
		ReportingManager: &manager,
		Skills:           []string{"Go", "Kubernetes"},
		PerformanceReviews: []model.PerformanceReview{
			{ReviewDate: "2022-12-01", Rating: 4.2, Comments: "Solid delivery"},
			{ReviewDate: "2023-12-01", Rating: 4.6, Comments: "Led the platform migration"},
		},
		Benefits: model.Benefits{
			HealthInsurance: "Gold Plan",
			RetirementPlan:  "401k",
			PaidTimeOff:     20,
		},
		EmergencyContact: model.EmergencyContact{
			Name:         "Alex " + last,
			Relationship: "Spouse",
			PhoneNumber:  "+1-555-0199",
		},
		Notes: "",
	}
}
