package tools

import (
	"strconv"
	"strings"

	"github.com/hr-agent-core/server/internal/agent/model"
)

// Summarize renders the natural-language paragraph that is embedded for
// similarity search. It depends only on e's structured fields, so unchanged
// records always produce identical text.
func Summarize(e *model.Employee) string {
	var b strings.Builder
	sentence := func(parts ...string) {
		s := strings.TrimSpace(strings.Join(parts, ""))
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		if !strings.HasSuffix(s, ".") {
			b.WriteByte('.')
		}
	}

	sentence(e.FullName(), ", with employee ID ", e.EmployeeID, ", was born on ", orUnknown(e.DateOfBirth))

	j := e.JobDetails
	sentence(e.FirstName, " works as a ", orUnknown(j.EmploymentType), " ", orUnknown(j.JobTitle),
		" in the ", orUnknown(j.Department), " department, earning ", formatMoney(j.Salary, j.Currency), " per year")
	if j.HireDate != "" {
		sentence("Hired on ", j.HireDate)
	}

	a := e.Address
	if loc := joinNonEmpty(", ", a.City, a.State, a.Country); loc != "" {
		sentence("Lives in ", loc)
	}
	w := e.WorkLocation
	if w.NearestOffice != "" {
		if w.IsRemote {
			sentence("Works remotely; nearest office is ", w.NearestOffice)
		} else {
			sentence("Works on site at the ", w.NearestOffice, " office")
		}
	} else if w.IsRemote {
		sentence("Works remotely")
	}

	if e.ReportingManager != nil && *e.ReportingManager != "" {
		sentence("Reports to ", *e.ReportingManager)
	} else {
		sentence("Has no reporting manager")
	}

	if len(e.Skills) > 0 {
		sentence("Skills: ", strings.Join(e.Skills, ", "))
	}

	if r, ok := latestReview(e.PerformanceReviews); ok {
		sentence("Latest performance review on ", orUnknown(r.ReviewDate), " rated ",
			strconv.FormatFloat(r.Rating, 'f', -1, 64), "/5: ", strings.TrimSpace(r.Comments))
	}

	bn := e.Benefits
	if bn.HealthInsurance != "" || bn.RetirementPlan != "" || bn.PaidTimeOff > 0 {
		sentence("Benefits include ", joinNonEmpty(", ", bn.HealthInsurance, bn.RetirementPlan),
			" and ", strconv.Itoa(bn.PaidTimeOff), " days of paid time off")
	}

	if n := strings.TrimSpace(e.Notes); n != "" {
		sentence("Notes: ", n)
	}
	return b.String()
}

// latestReview picks the review with the greatest ISO date; ties go to the later entry.
func latestReview(reviews []model.PerformanceReview) (model.PerformanceReview, bool) {
	if len(reviews) == 0 {
		return model.PerformanceReview{}, false
	}
	best := 0
	for i := 1; i < len(reviews); i++ {
		if reviews[i].ReviewDate >= reviews[best].ReviewDate {
			best = i
		}
	}
	return reviews[best], true
}

func formatMoney(amount float64, currency string) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
