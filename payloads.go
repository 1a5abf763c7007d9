package jobly

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/goliatone/go-jobly/sqlpatch"
)

var slugRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// CompanyCreatePayload is the body of POST /companies
type CompanyCreatePayload struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	NumEmployees *int    `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

func (p CompanyCreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Handle, validation.Required, validation.Length(1, 25), validation.Match(slugRx)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.NumEmployees, validation.Min(0)),
		validation.Field(&p.Description, validation.Length(0, 1000)),
		validation.Field(&p.LogoURL, is.URL),
	)
}

func (p CompanyCreatePayload) Record() *Company {
	return &Company{
		Handle:       p.Handle,
		Name:         p.Name,
		NumEmployees: p.NumEmployees,
		Description:  p.Description,
		LogoURL:      p.LogoURL,
	}
}

// CompanyPatchPayload is the body of PATCH /companies/:handle. Absent
// fields are left untouched.
type CompanyPatchPayload struct {
	Name         *string `json:"name"`
	NumEmployees *int    `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
}

func (p CompanyPatchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&p.NumEmployees, validation.Min(0)),
		validation.Field(&p.Description, validation.Length(0, 1000)),
		validation.Field(&p.LogoURL, is.URL),
	)
}

func (p CompanyPatchPayload) Changes() sqlpatch.Changes {
	var c sqlpatch.Changes
	if p.Name != nil {
		c = c.Set("name", *p.Name)
	}
	if p.NumEmployees != nil {
		c = c.Set("num_employees", *p.NumEmployees)
	}
	if p.Description != nil {
		c = c.Set("description", *p.Description)
	}
	if p.LogoURL != nil {
		c = c.Set("logo_url", *p.LogoURL)
	}
	return c
}

// JobCreatePayload is the body of POST /jobs
type JobCreatePayload struct {
	Title         string   `json:"title"`
	Salary        *float64 `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"company_handle"`
}

func (p JobCreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Salary, validation.NotNil, validation.Min(0.0)),
		validation.Field(&p.Equity, validation.NotNil, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&p.CompanyHandle, validation.Required, validation.Match(slugRx)),
	)
}

func (p JobCreatePayload) Record() *Job {
	job := &Job{Title: p.Title, CompanyHandle: p.CompanyHandle}
	if p.Salary != nil {
		job.Salary = *p.Salary
	}
	if p.Equity != nil {
		job.Equity = *p.Equity
	}
	return job
}

// JobPatchPayload is the body of PATCH /jobs/:id
type JobPatchPayload struct {
	Title         *string  `json:"title"`
	Salary        *float64 `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle *string  `json:"company_handle"`
}

func (p JobPatchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Salary, validation.Min(0.0)),
		validation.Field(&p.Equity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&p.CompanyHandle, validation.NilOrNotEmpty, validation.Match(slugRx)),
	)
}

func (p JobPatchPayload) Changes() sqlpatch.Changes {
	var c sqlpatch.Changes
	if p.Title != nil {
		c = c.Set("title", *p.Title)
	}
	if p.Salary != nil {
		c = c.Set("salary", *p.Salary)
	}
	if p.Equity != nil {
		c = c.Set("equity", *p.Equity)
	}
	if p.CompanyHandle != nil {
		c = c.Set("company_handle", *p.CompanyHandle)
	}
	return c
}

// UserCreatePayload is the body of POST /users
type UserCreatePayload struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url"`
}

func (p UserCreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(1, 25), validation.Match(slugRx)),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.PhotoURL, is.URL),
	)
}

func (p UserCreatePayload) Record() *User {
	return &User{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		PhotoURL:  p.PhotoURL,
	}
}

// UserPatchPayload is the body of PATCH /users/:username
type UserPatchPayload struct {
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	PhotoURL  *string `json:"photo_url"`
}

func (p UserPatchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.NilOrNotEmpty, validation.Length(6, 100)),
		validation.Field(&p.FirstName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&p.LastName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&p.Email, validation.NilOrNotEmpty, validation.Length(6, 100), is.Email),
		validation.Field(&p.PhotoURL, is.URL),
	)
}

func (p UserPatchPayload) Changes() sqlpatch.Changes {
	var c sqlpatch.Changes
	if p.Password != nil {
		c = c.Set("password", *p.Password)
	}
	if p.FirstName != nil {
		c = c.Set("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		c = c.Set("last_name", *p.LastName)
	}
	if p.Email != nil {
		c = c.Set("email", *p.Email)
	}
	if p.PhotoURL != nil {
		c = c.Set("photo_url", *p.PhotoURL)
	}
	return c
}

// LoginPayload is the body of POST /login
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// ApplicationPayload is the body of POST /jobs/:id/apply
type ApplicationPayload struct {
	State string `json:"state"`
}

func (p ApplicationPayload) Validate() error {
	states := make([]any, len(ApplicationStates))
	for i, s := range ApplicationStates {
		states[i] = s
	}
	return validation.Errors{
		"state": validation.Validate(NormalizeState(p.State), validation.Required, validation.In(states...)),
	}.Filter()
}

// TechnologyPayload is the body of POST /jobs/:id/tech
type TechnologyPayload struct {
	LanguageName string `json:"language_name"`
}

func (p TechnologyPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LanguageName, validation.Required, validation.Length(1, 50)),
	)
}
