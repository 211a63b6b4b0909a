package order

import (
	"fmt"
	"math"
	"sort"

	"github.com/SanjuMs7/online-course-marketplace/core/course"
)

// Summary aggregates an instructor's dashboard numbers from their course
// slice and paid orders. Pure derivation, no network.
type Summary struct {
	TotalEnrollments  int
	AverageCompletion int
	HasCompletion     bool
	TotalRevenue      course.Price
	TopCourses        []TopCourse
	Enrollments       []MonthlyCount
}

type TopCourse struct {
	Title          string
	Enrollments    int
	CompletionRate float64
}

type MonthlyCount struct {
	Month string
	Count int
}

func Summarize(courses []course.Course, paid []Order) Summary {
	var s Summary

	var completion float64
	for _, c := range courses {
		s.TotalEnrollments += c.EnrollmentCount
		completion += c.CompletionRate
	}
	if len(courses) > 0 {
		s.AverageCompletion = int(math.Round(completion / float64(len(courses))))
		s.HasCompletion = true
	}

	for _, o := range paid {
		if o.Status == Paid {
			s.TotalRevenue += o.Amount
		}
	}

	ranked := make([]course.Course, len(courses))
	copy(ranked, courses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EnrollmentCount > ranked[j].EnrollmentCount
	})
	for i := 0; i < len(ranked) && i < 3; i++ {
		s.TopCourses = append(s.TopCourses, TopCourse{
			Title:          ranked[i].Title,
			Enrollments:    ranked[i].EnrollmentCount,
			CompletionRate: ranked[i].CompletionRate,
		})
	}

	buckets := map[string]int{}
	for _, c := range courses {
		if c.CreatedAt.IsZero() {
			continue
		}
		key := fmt.Sprintf("%d-%02d", c.CreatedAt.Year(), int(c.CreatedAt.Month()))
		buckets[key] += c.EnrollmentCount
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Enrollments = append(s.Enrollments, MonthlyCount{Month: k, Count: buckets[k]})
	}

	return s
}
