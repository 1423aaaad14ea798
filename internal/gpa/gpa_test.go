package gpa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/models"
)

func TestSummarizeCourseEmpty(t *testing.T) {
	assert.Equal(t, 0.0, SummarizeCourse(1, nil))
	assert.Equal(t, 0.0, SummarizeCourse(1, []models.Grade{}))
}

func TestSummarizeCourseZeroWeight(t *testing.T) {
	grades := []models.Grade{
		{CourseID: 1, Percentage: 95, Weight: 0},
		{CourseID: 1, Percentage: 60, Weight: 0},
	}
	assert.Equal(t, 0.0, SummarizeCourse(1, grades))
}

func TestSummarizeCourseWeightedByWeightNotTotal(t *testing.T) {
	grades := []models.Grade{
		{CourseID: 1, Score: 5, Total: 5, Percentage: 100, Weight: 90},
		{CourseID: 1, Score: 0, Total: 500, Percentage: 0, Weight: 10},
	}
	assert.InDelta(t, 90.0, SummarizeCourse(1, grades), 1e-9)
}

func TestSummarizeCourseTrustsStoredPercentage(t *testing.T) {
	grades := []models.Grade{{CourseID: 1, Score: 1, Total: 100, Percentage: 88, Weight: 1}}
	assert.InDelta(t, 88.0, SummarizeCourse(1, grades), 1e-9)
}

func TestSummarizeCourseIgnoresOtherCourses(t *testing.T) {
	grades := []models.Grade{
		{CourseID: 1, Percentage: 70, Weight: 1},
		{CourseID: 2, Percentage: 100, Weight: 100},
	}
	assert.InDelta(t, 70.0, SummarizeCourse(1, grades), 1e-9)
}

func TestGradePoints(t *testing.T) {
	cases := []struct {
		pct    float64
		points float64
	}{
		{100, 4.0},
		{97, 4.0},
		{96.999, 3.7},
		{93, 3.7},
		{90, 3.3},
		{87, 3.0},
		{85, 2.7},
		{83, 2.7},
		{80, 2.3},
		{77, 2.0},
		{73, 1.7},
		{70, 1.3},
		{67, 1.0},
		{65, 0.7},
		{64.999, 0.0},
		{0, 0.0},
		{-5, 0.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.points, GradePoints(tc.pct), "percentage %v", tc.pct)
	}
}

func TestLetterGrade(t *testing.T) {
	cases := map[float64]string{
		97:   "A+",
		93:   "A",
		90:   "A-",
		89.9: "B+",
		85:   "B",
		80:   "B-",
		77:   "C+",
		73:   "C",
		70:   "C-",
		67:   "D+",
		65:   "D",
		64.9: "F",
		0:    "F",
	}
	for pct, letter := range cases {
		assert.Equal(t, letter, LetterGrade(pct), "percentage %v", pct)
	}
}

func TestCumulativeGPAEmpty(t *testing.T) {
	assert.Equal(t, 0.0, CumulativeGPA(nil))
	assert.Equal(t, 0.0, CumulativeGPA([]models.CourseGradeSummary{{Credits: 0, GradePoints: 4}}))
}

func TestAggregateSingleCourse(t *testing.T) {
	courses := []models.Course{{ID: 1, Name: "Calculus", Code: "MATH101", Credits: 3}}
	grades := []models.Grade{
		{CourseID: 1, Percentage: 90, Weight: 50},
		{CourseID: 1, Percentage: 80, Weight: 50},
	}

	summaries := AggregateCourses(courses, grades)
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, int64(1), s.CourseID)
	assert.Equal(t, "Calculus", s.CourseName)
	assert.Equal(t, "MATH101", s.CourseCode)
	assert.Equal(t, 3, s.Credits)
	assert.InDelta(t, 85.0, s.Grade, 1e-9)
	// 85 sits in the 83..87 band: B / 2.7
	assert.Equal(t, 2.7, s.GradePoints)
	assert.Equal(t, "B", s.Letter)
}

func TestUngradedCourseCountsAsZero(t *testing.T) {
	courses := []models.Course{{ID: 1, Credits: 3}, {ID: 2, Credits: 1}}
	grades := []models.Grade{{CourseID: 1, Percentage: 100, Weight: 1}}

	summaries := AggregateCourses(courses, grades)
	require.Len(t, summaries, 2)
	assert.Equal(t, 4.0, summaries[0].GradePoints)
	assert.Equal(t, 0.0, summaries[1].Grade)
	assert.Equal(t, 0.0, summaries[1].GradePoints)
	assert.InDelta(t, 3.0, CumulativeGPA(summaries), 1e-9)
	assert.Equal(t, 4, TotalCredits(summaries))
}

func TestAggregateUnknownCourseIgnored(t *testing.T) {
	courses := []models.Course{{ID: 1, Credits: 3}}
	grades := []models.Grade{
		{CourseID: 99, Percentage: 100, Weight: 100},
		{CourseID: 1, Percentage: 72, Weight: 1},
	}

	var summaries []models.CourseGradeSummary
	assert.NotPanics(t, func() { summaries = AggregateCourses(courses, grades) })
	require.Len(t, summaries, 1)
	assert.InDelta(t, 72.0, summaries[0].Grade, 1e-9)
}

func TestAggregateIsIdempotentAndPreservesOrder(t *testing.T) {
	courses := []models.Course{{ID: 3, Credits: 2}, {ID: 1, Credits: 4}, {ID: 2, Credits: 1}}
	grades := []models.Grade{
		{ID: 10, CourseID: 2, Percentage: 91, Weight: 20},
		{ID: 11, CourseID: 3, Percentage: 66, Weight: 40},
		{ID: 12, CourseID: 1, Percentage: 78, Weight: 10},
	}
	coursesBefore := append([]models.Course(nil), courses...)
	gradesBefore := append([]models.Grade(nil), grades...)

	first := AggregateCourses(courses, grades)
	second := AggregateCourses(courses, grades)

	assert.Equal(t, first, second)
	assert.Equal(t, coursesBefore, courses)
	assert.Equal(t, gradesBefore, grades)
	assert.Equal(t, []int64{3, 1, 2}, []int64{first[0].CourseID, first[1].CourseID, first[2].CourseID})
}

func TestAggregateEmptyInputs(t *testing.T) {
	summaries := AggregateCourses(nil, nil)
	assert.Empty(t, summaries)
	assert.Equal(t, 0.0, CumulativeGPA(summaries))
}
