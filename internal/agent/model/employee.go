package model

type Address struct {
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

type ContactDetails struct {
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phone_number" bson:"phone_number"`
}

type JobDetails struct {
	JobTitle       string  `json:"job_title" bson:"job_title"`
	Department     string  `json:"department" bson:"department"`
	HireDate       string  `json:"hire_date" bson:"hire_date"`
	EmploymentType string  `json:"employment_type" bson:"employment_type"`
	Salary         float64 `json:"salary" bson:"salary"`
	Currency       string  `json:"currency" bson:"currency"`
}

type WorkLocation struct {
	NearestOffice string `json:"nearest_office" bson:"nearest_office"`
	IsRemote      bool   `json:"is_remote" bson:"is_remote"`
}

type PerformanceReview struct {
	ReviewDate string  `json:"review_date" bson:"review_date"`
	Rating     float64 `json:"rating" bson:"rating"`
	Comments   string  `json:"comments" bson:"comments"`
}

type Benefits struct {
	HealthInsurance string `json:"health_insurance" bson:"health_insurance"`
	RetirementPlan  string `json:"retirement_plan" bson:"retirement_plan"`
	PaidTimeOff     int    `json:"paid_time_off" bson:"paid_time_off"`
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
	PhoneNumber  string `json:"phone_number" bson:"phone_number"`
}

// Employee is a record of the HR collection. EmbeddingText and Embedding are
// derived from the other fields and are always written together.
type Employee struct {
	EmployeeID         string              `json:"employee_id" bson:"employee_id"`
	FirstName          string              `json:"first_name" bson:"first_name"`
	LastName           string              `json:"last_name" bson:"last_name"`
	DateOfBirth        string              `json:"date_of_birth" bson:"date_of_birth"`
	Address            Address             `json:"address" bson:"address"`
	ContactDetails     ContactDetails      `json:"contact_details" bson:"contact_details"`
	JobDetails         JobDetails          `json:"job_details" bson:"job_details"`
	WorkLocation       WorkLocation        `json:"work_location" bson:"work_location"`
	ReportingManager   *string             `json:"reporting_manager" bson:"reporting_manager"`
	Skills             []string            `json:"skills" bson:"skills"`
	PerformanceReviews []PerformanceReview `json:"performance_reviews" bson:"performance_reviews"`
	Benefits           Benefits            `json:"benefits" bson:"benefits"`
	EmergencyContact   EmergencyContact    `json:"emergency_contact" bson:"emergency_contact"`
	Notes              string              `json:"notes" bson:"notes"`

	EmbeddingText string    `json:"embedding_text,omitempty" bson:"embedding_text,omitempty"`
	Embedding     []float32 `json:"embedding,omitempty" bson:"embedding,omitempty"`
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// FieldValue returns the typed value of a top-level field addressed by its
// serialized name. Derived fields are not addressable.
func (e *Employee) FieldValue(key string) (any, bool) {
	switch key {
	case "employee_id":
		return e.EmployeeID, true
	case "first_name":
		return e.FirstName, true
	case "last_name":
		return e.LastName, true
	case "date_of_birth":
		return e.DateOfBirth, true
	case "address":
		return e.Address, true
	case "contact_details":
		return e.ContactDetails, true
	case "job_details":
		return e.JobDetails, true
	case "work_location":
		return e.WorkLocation, true
	case "reporting_manager":
		return e.ReportingManager, true
	case "skills":
		return e.Skills, true
	case "performance_reviews":
		return e.PerformanceReviews, true
	case "benefits":
		return e.Benefits, true
	case "emergency_contact":
		return e.EmergencyContact, true
	case "notes":
		return e.Notes, true
	}
	return nil, false
}

// ScoredEmployee is a similarity search hit.
type ScoredEmployee struct {
	Employee Employee `json:"employee" bson:",inline"`
	Score    float64  `json:"score" bson:"score"`
}
