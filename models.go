package jobly

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Company is the company model
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:cmp"`
	Handle        string  `bun:"handle,pk" json:"handle"`
	Name          string  `bun:"name,notnull,unique" json:"name"`
	NumEmployees  *int    `bun:"num_employees" json:"num_employees"`
	Description   *string `bun:"description" json:"description"`
	LogoURL       *string `bun:"logo_url" json:"logo_url"`
}

// CompanySummary is a company as listed by search
type CompanySummary struct {
	Handle string `bun:"handle" json:"handle"`
	Name   string `bun:"name" json:"name"`
}

// CompanyJob is a job as listed under its company
type CompanyJob struct {
	ID    int64  `bun:"id" json:"id"`
	Title string `bun:"title" json:"title"`
}

// CompanyDetail is a company with its jobs
type CompanyDetail struct {
	Company *Company     `json:"company"`
	Jobs    []CompanyJob `json:"jobs"`
}

// Job is the job posting model
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:job"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Salary        float64   `bun:"salary,notnull" json:"salary"`
	Equity        float64   `bun:"equity,notnull" json:"equity"`
	CompanyHandle string    `bun:"company_handle,notnull" json:"company_handle"`
	DatePosted    time.Time `bun:"date_posted,notnull" json:"date_posted"`
}

// JobSummary is a job as listed by search
type JobSummary struct {
	Title         string `bun:"title" json:"title"`
	CompanyHandle string `bun:"company_handle" json:"company_handle"`
}

// JobDetail is a job with the technologies it uses
type JobDetail struct {
	Job          *Job     `json:"job"`
	Technologies []string `json:"technology"`
}

// User is the user model. The password hash never leaves the server.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	Username      string  `bun:"username,pk" json:"username"`
	Password      string  `bun:"password,notnull" json:"-"`
	FirstName     string  `bun:"first_name,notnull" json:"first_name"`
	LastName      string  `bun:"last_name,notnull" json:"last_name"`
	Email         string  `bun:"email,notnull,unique" json:"email"`
	PhotoURL      *string `bun:"photo_url" json:"photo_url"`
	IsAdmin       bool    `bun:"is_admin,notnull" json:"is_admin"`
}

// UserSummary is a user as listed by the users index
type UserSummary struct {
	Username  string `bun:"username" json:"username"`
	FirstName string `bun:"first_name" json:"first_name"`
	LastName  string `bun:"last_name" json:"last_name"`
	Email     string `bun:"email" json:"email"`
}

// UserApplication is an application joined with its job
type UserApplication struct {
	JobID         int64  `bun:"job_id" json:"job_id"`
	State         string `bun:"state" json:"state"`
	Title         string `bun:"title" json:"title"`
	CompanyHandle string `bun:"company_handle" json:"company_handle"`
}

// UserDetail is a user with the jobs they applied to
type UserDetail struct {
	User *User             `json:"user"`
	Jobs []UserApplication `json:"jobs"`
}

// ApplicationState is where a user stands with a job
type ApplicationState = string

const (
	StateInterested ApplicationState = "interested"
	StateApplied    ApplicationState = "applied"
	StateAccepted   ApplicationState = "accepted"
	StateRejected   ApplicationState = "rejected"
)

// ApplicationStates lists every accepted state
var ApplicationStates = []ApplicationState{StateInterested, StateApplied, StateAccepted, StateRejected}

// NormalizeState trims and lowercases a client supplied state
func NormalizeState(state string) ApplicationState {
	return strings.ToLower(strings.TrimSpace(state))
}

// Application is the application model
type Application struct {
	bun.BaseModel `bun:"table:applications,alias:app"`
	Username      string           `bun:"username,pk" json:"username"`
	JobID         int64            `bun:"job_id,pk" json:"job_id"`
	State         ApplicationState `bun:"state,notnull" json:"state"`
	CreatedAt     time.Time        `bun:"created_at,notnull" json:"created_at"`
}

// Technology is a language used by a job
type Technology struct {
	bun.BaseModel `bun:"table:technologies,alias:tec"`
	JobID         int64  `bun:"job_id,pk" json:"job_id"`
	LanguageName  string `bun:"language_name,pk" json:"language_name"`
}
