package models

import "time"

// Course is a class the student can enrol in. Credits weight the course in
// the cumulative GPA.
type Course struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	Credits   int       `db:"credits" json:"credits"`
	Professor string    `db:"professor" json:"professor"`
	Room      string    `db:"room" json:"room"`
	Color     string    `db:"color" json:"color"`
	Semester  string    `db:"semester" json:"semester"`
	Enrolled  bool      `db:"enrolled" json:"enrolled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Enrolled  *bool
	Semester  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
