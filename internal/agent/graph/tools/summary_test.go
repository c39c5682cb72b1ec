package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hr-agent-core/server/internal/agent/model"
)

func sampleEmployee() *model.Employee {
	manager := "EMP-000"
	return &model.Employee{
		EmployeeID:  "EMP-001",
		FirstName:   "John",
		LastName:    "Doe",
		DateOfBirth: "1990-01-01",
		Address:     model.Address{City: "Austin", State: "TX", Country: "USA"},
		JobDetails: model.JobDetails{
			JobTitle:       "Software Engineer",
			Department:     "IT",
			HireDate:       "2020-01-15",
			EmploymentType: "Full-Time",
			Salary:         90000,
			Currency:       "USD",
		},
		WorkLocation:     model.WorkLocation{NearestOffice: "Dallas", IsRemote: false},
		ReportingManager: &manager,
		Skills:           []string{"Go", "SQL"},
		PerformanceReviews: []model.PerformanceReview{
			{ReviewDate: "2023-06-01", Rating: 4.5, Comments: "Great"},
			{ReviewDate: "2022-06-01", Rating: 3, Comments: "Good"},
		},
		Benefits: model.Benefits{HealthInsurance: "Gold", RetirementPlan: "401k", PaidTimeOff: 15},
	}
}

func TestSummarize(t *testing.T) {
	want := "John Doe, with employee ID EMP-001, was born on 1990-01-01. " +
		"John works as a Full-Time Software Engineer in the IT department, earning 90000 USD per year. " +
		"Hired on 2020-01-15. " +
		"Lives in Austin, TX, USA. " +
		"Works on site at the Dallas office. " +
		"Reports to EMP-000. " +
		"Skills: Go, SQL. " +
		"Latest performance review on 2023-06-01 rated 4.5/5: Great. " +
		"Benefits include Gold, 401k and 15 days of paid time off."

	assert.Equal(t, want, Summarize(sampleEmployee()))
}

func TestSummarize_IgnoresDerivedFields(t *testing.T) {
	a := sampleEmployee()
	b := sampleEmployee()
	b.EmbeddingText = "stale"
	b.Embedding = []float32{1, 2}

	assert.Equal(t, Summarize(a), Summarize(b))
}

func TestSummarize_SparseRecord(t *testing.T) {
	e := &model.Employee{EmployeeID: "EMP-9", FirstName: "Kim"}

	assert.Equal(t,
		"Kim, with employee ID EMP-9, was born on unknown. "+
			"Kim works as a unknown unknown in the unknown department, earning 0 per year. "+
			"Has no reporting manager.",
		Summarize(e))
}

func TestLatestReview_TieGoesToLaterEntry(t *testing.T) {
	r, ok := latestReview([]model.PerformanceReview{
		{ReviewDate: "2023-01-01", Comments: "first"},
		{ReviewDate: "2023-01-01", Comments: "second"},
	})

	assert.True(t, ok)
	assert.Equal(t, "second", r.Comments)
}

func TestSynthesizeID(t *testing.T) {
	assert.Equal(t, "EMP-0042-005", synthesizeID(timeMillis(10042), 5))
	assert.Equal(t, "EMP-0000-999", synthesizeID(timeMillis(0), -1))
	assert.Regexp(t, SynthesizedIDPattern, synthesizeID(timeMillis(1_700_000_012_345), 123))
}

func TestSameRecord(t *testing.T) {
	a := sampleEmployee()
	b := sampleEmployee()
	b.Embedding = []float32{1}
	b.Skills = append([]string(nil), a.Skills...)
	assert.True(t, sameRecord(a, b))

	b.Notes = "changed"
	assert.False(t, sameRecord(a, b))
}

func timeMillis(ms int64) time.Time { return time.UnixMilli(ms) }
