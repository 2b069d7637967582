package schema

import (
	"fmt"
)

// Table is one named CREATE TABLE statement plus the tables its foreign keys point at.
type Table struct {
	Name       string
	DDL        string
	References []string
}

// Tables returns the edutrack tables in creation order. Parents always precede
// the tables that reference them.
func Tables() []Table {
	return []Table{
		{
			Name: "users",
			DDL: fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS users (
            user_id INT AUTO_INCREMENT PRIMARY KEY,
            name VARCHAR(100) NOT NULL,
            email VARCHAR(100) UNIQUE NOT NULL,
            password VARCHAR(100) NOT NULL,
            role %s NOT NULL,
            college_id INT
        )`, enumColumn(RoleStudent, RoleTeacher, RoleAdmin, RoleGovernment)),
		},
		{
			Name: "colleges",
			DDL: `
        CREATE TABLE IF NOT EXISTS colleges (
            college_id INT AUTO_INCREMENT PRIMARY KEY,
            college_name VARCHAR(200) NOT NULL,
            location VARCHAR(100)
        )`,
		},
		{
			Name: "students",
			DDL: `
        CREATE TABLE IF NOT EXISTS students (
            student_id INT AUTO_INCREMENT PRIMARY KEY,
            user_id INT UNIQUE,
            dob DATE,
            skills TEXT,
            income DECIMAL(10,2),
            FOREIGN KEY (user_id) REFERENCES users(user_id)
        )`,
			References: []string{"users"},
		},
		{
			Name: "teachers",
			DDL: `
        CREATE TABLE IF NOT EXISTS teachers (
            teacher_id INT AUTO_INCREMENT PRIMARY KEY,
            user_id INT UNIQUE,
            subject VARCHAR(100),
            FOREIGN KEY (user_id) REFERENCES users(user_id)
        )`,
			References: []string{"users"},
		},
		{
			Name: "attendance",
			DDL: fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS attendance (
            attendance_id INT AUTO_INCREMENT PRIMARY KEY,
            student_id INT,
            teacher_id INT,
            date DATE,
            status %s,
            FOREIGN KEY (student_id) REFERENCES students(student_id),
            FOREIGN KEY (teacher_id) REFERENCES teachers(teacher_id)
        )`, enumColumn(AttendancePresent, AttendanceAbsent)),
			References: []string{"students", "teachers"},
		},
		{
			Name: "marks",
			DDL: `
        CREATE TABLE IF NOT EXISTS marks (
            mark_id INT AUTO_INCREMENT PRIMARY KEY,
            student_id INT,
            subject VARCHAR(100),
            marks_obtained INT,
            total_marks INT,
            FOREIGN KEY (student_id) REFERENCES students(student_id)
        )`,
			References: []string{"students"},
		},
		{
			Name: "scholarships",
			DDL: fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS scholarships (
            scholarship_id INT AUTO_INCREMENT PRIMARY KEY,
            student_id INT,
            status %s,
            criteria TEXT,
            FOREIGN KEY (student_id) REFERENCES students(student_id)
        )`, enumColumn(ScholarshipPending, ScholarshipApproved, ScholarshipRejected)),
			References: []string{"students"},
		},
		{
			Name: "complaints",
			DDL: fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS complaints (
            complaint_id INT AUTO_INCREMENT PRIMARY KEY,
            student_id INT,
            complaint_text TEXT,
            status %s DEFAULT '%s',
            FOREIGN KEY (student_id) REFERENCES students(student_id)
        )`, enumColumn(ComplaintOpen, ComplaintResolved), ComplaintOpen),
			References: []string{"students"},
		},
		{
			Name: "timetable",
			DDL: `
        CREATE TABLE IF NOT EXISTS timetable (
            timetable_id INT AUTO_INCREMENT PRIMARY KEY,
            teacher_id INT,
            subject VARCHAR(100),
            day VARCHAR(20),
            time_slot VARCHAR(20),
            FOREIGN KEY (teacher_id) REFERENCES teachers(teacher_id)
        )`,
			References: []string{"teachers"},
		},
	}
}

// CheckOrder returns an error naming the first table that references a table
// not declared before it.
func CheckOrder(tables []Table) error {
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s declared twice", t.Name)
		}
		for _, parent := range t.References {
			if !seen[parent] {
				return fmt.Errorf("table %s references %s before it is created", t.Name, parent)
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// Names lists table names in declaration order
func Names(tables []Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
