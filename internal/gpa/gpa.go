// Package gpa turns weighted grade records into per-course percentages,
// letter grades and a credit-weighted cumulative GPA.
//
// Every function is pure. Degenerate input (no records, zero weight, zero
// credits, grades for unknown courses) yields 0 instead of an error.
package gpa

import "github.com/noah-isme/studyhub-api/internal/models"

// step is one rung of the grading ladder. Min is an inclusive lower bound.
type step struct {
	Min    float64
	Points float64
	Letter string
}

// ladder is evaluated top-down; the first rung whose Min is met wins.
var ladder = []step{
	{Min: 97, Points: 4.0, Letter: "A+"},
	{Min: 93, Points: 3.7, Letter: "A"},
	{Min: 90, Points: 3.3, Letter: "A-"},
	{Min: 87, Points: 3.0, Letter: "B+"},
	{Min: 83, Points: 2.7, Letter: "B"},
	{Min: 80, Points: 2.3, Letter: "B-"},
	{Min: 77, Points: 2.0, Letter: "C+"},
	{Min: 73, Points: 1.7, Letter: "C"},
	{Min: 70, Points: 1.3, Letter: "C-"},
	{Min: 67, Points: 1.0, Letter: "D+"},
	{Min: 65, Points: 0.7, Letter: "D"},
}

const failingLetter = "F"

// SummarizeCourse returns the weighted percentage for courseID. Each grade
// contributes its stored Percentage scaled by its Weight; points possible
// (Total) play no part. Grades of other courses are skipped.
func SummarizeCourse(courseID int64, grades []models.Grade) float64 {
	var totalWeightedScore, totalWeight float64
	for i := range grades {
		if grades[i].CourseID != courseID {
			continue
		}
		totalWeightedScore += grades[i].Percentage / 100 * grades[i].Weight
		totalWeight += grades[i].Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return totalWeightedScore / totalWeight * 100
}

// GradePoints maps a percentage onto the 4.0 scale.
func GradePoints(percentage float64) float64 {
	for _, s := range ladder {
		if percentage >= s.Min {
			return s.Points
		}
	}
	return 0
}

// LetterGrade maps a percentage onto the A+..F scale.
func LetterGrade(percentage float64) string {
	for _, s := range ladder {
		if percentage >= s.Min {
			return s.Letter
		}
	}
	return failingLetter
}

// AggregateCourses builds one summary per course in input order. Courses
// without grades are included with a zero grade.
func AggregateCourses(courses []models.Course, grades []models.Grade) []models.CourseGradeSummary {
	byCourse := make(map[int64][]models.Grade, len(courses))
	for _, g := range grades {
		byCourse[g.CourseID] = append(byCourse[g.CourseID], g)
	}

	summaries := make([]models.CourseGradeSummary, 0, len(courses))
	for _, c := range courses {
		grade := SummarizeCourse(c.ID, byCourse[c.ID])
		summaries = append(summaries, models.CourseGradeSummary{
			CourseID:    c.ID,
			CourseName:  c.Name,
			CourseCode:  c.Code,
			Credits:     c.Credits,
			Grade:       grade,
			GradePoints: GradePoints(grade),
			Letter:      LetterGrade(grade),
		})
	}
	return summaries
}

// CumulativeGPA is the credit-weighted mean of GradePoints.
func CumulativeGPA(summaries []models.CourseGradeSummary) float64 {
	var totalPoints float64
	var totalCredits int
	for _, s := range summaries {
		totalPoints += s.GradePoints * float64(s.Credits)
		totalCredits += s.Credits
	}
	if totalCredits <= 0 {
		return 0
	}
	return totalPoints / float64(totalCredits)
}

// TotalCredits sums credits across summaries.
func TotalCredits(summaries []models.CourseGradeSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.Credits
	}
	return total
}
