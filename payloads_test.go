package jobly_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-jobly"
	"github.com/goliatone/go-jobly/sqlpatch"
)

func fieldErrors(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)

	fields := []string{}
	for field := range errs {
		fields = append(fields, field)
	}
	return fields
}

func TestCompanyCreatePayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload jobly.CompanyCreatePayload
		fields  []string
	}{
		{
			name:    "valid",
			payload: jobly.CompanyCreatePayload{Handle: "acme", Name: "Acme", NumEmployees: ptr(5), LogoURL: ptr("http://acme.img")},
		},
		{
			name:    "missing required",
			payload: jobly.CompanyCreatePayload{},
			fields:  []string{"handle", "name"},
		},
		{
			name:    "negative employees and bad url",
			payload: jobly.CompanyCreatePayload{Handle: "acme", Name: "Acme", NumEmployees: ptr(-1), LogoURL: ptr("not a url")},
			fields:  []string{"logo_url", "num_employees"},
		},
		{
			name:    "handle with spaces",
			payload: jobly.CompanyCreatePayload{Handle: "ac me", Name: "Acme"},
			fields:  []string{"handle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.fields, fieldErrors(t, tt.payload.Validate()))
		})
	}
}

func TestCompanyPatchPayload_ChangesFollowColumnOrder(t *testing.T) {
	payload := jobly.CompanyPatchPayload{
		LogoURL: ptr("dogs"),
		Name:    ptr("daniel"),
	}

	changes := payload.Changes()
	assert.Equal(t, []string{"name", "logo_url"}, changes.Columns())
	assert.Equal(t, []any{"daniel", "dogs"}, changes.Values())

	stmt, err := sqlpatch.BuildFrom(jobly.CompanyColumns, "companies", changes, "handle", "cool")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE companies SET name=$1, logo_url=$2 WHERE handle=$3 RETURNING *", stmt.Query)

	assert.Zero(t, jobly.CompanyPatchPayload{}.Changes().Len())
}

func TestJobPayloads_Validate(t *testing.T) {
	valid := jobly.JobCreatePayload{Title: "t", Salary: ptr(1.0), Equity: ptr(0.5), CompanyHandle: "c1"}
	assert.NoError(t, valid.Validate())

	missing := jobly.JobCreatePayload{}
	assert.ElementsMatch(t, []string{"title", "salary", "equity", "company_handle"}, fieldErrors(t, missing.Validate()))

	tooMuchEquity := valid
	tooMuchEquity.Equity = ptr(1.5)
	assert.ElementsMatch(t, []string{"equity"}, fieldErrors(t, tooMuchEquity.Validate()))

	patch := jobly.JobPatchPayload{Salary: ptr(-1.0)}
	assert.ElementsMatch(t, []string{"salary"}, fieldErrors(t, patch.Validate()))

	patch = jobly.JobPatchPayload{Title: ptr("x"), Equity: ptr(0.0)}
	require.NoError(t, patch.Validate())
	assert.Equal(t, []string{"title", "equity"}, patch.Changes().Columns())
}

func TestUserPayloads_Validate(t *testing.T) {
	valid := jobly.UserCreatePayload{
		Username:  "user1",
		Password:  "password",
		FirstName: "First",
		LastName:  "Last",
		Email:     "user@email.com",
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Password = "123"
	short.Email = "nope"
	assert.ElementsMatch(t, []string{"password", "email"}, fieldErrors(t, short.Validate()))

	patch := jobly.UserPatchPayload{Email: ptr("")}
	assert.ElementsMatch(t, []string{"email"}, fieldErrors(t, patch.Validate()))

	patch = jobly.UserPatchPayload{FirstName: ptr("New"), Password: ptr("new-password")}
	require.NoError(t, patch.Validate())
	assert.Equal(t, []string{"password", "first_name"}, patch.Changes().Columns())
}

func TestApplicationPayload_Validate(t *testing.T) {
	for _, state := range []string{"interested", "APPLIED", " accepted ", "Rejected"} {
		assert.NoError(t, jobly.ApplicationPayload{State: state}.Validate(), state)
	}

	assert.Error(t, jobly.ApplicationPayload{State: "hired"}.Validate())
	assert.Error(t, jobly.ApplicationPayload{}.Validate())
}
