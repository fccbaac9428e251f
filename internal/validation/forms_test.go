package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
func strPtr(v string) *string {
	return &v
}

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	verr, ok := As(err)
	require.True(t, ok, "expected *validation.Error, got %v", err)
	return verr.Fields
}

func TestRegisterPasswordMismatch(t *testing.T) {
	err := Validate(RegisterForm{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "s3cret-pass",
		Password2: "other-pass1",
	})

	errs := fieldErrors(t, err)
	assert.Equal(t, []string{"The two password fields didn't match."}, errs["password2"])
	assert.NotContains(t, errs, "username")
}

func TestRegisterRejectsBadInput(t *testing.T) {
	err := Validate(RegisterForm{
		Username:  "bad name!",
		Email:     "not-an-email",
		Password1: "12345678",
		Password2: "12345678",
	})

	errs := fieldErrors(t, err)
	assert.Equal(t, []string{usernameText}, errs["username"])
	assert.Equal(t, []string{"Enter a valid email address."}, errs["email"])
	assert.Equal(t, []string{pwdNotAllNumText}, errs["password2"])
}

func TestRegisterNormalize(t *testing.T) {
	f := RegisterForm{Username: "  bob ", Email: " bob@example.com\n"}
	f.Normalize()
	assert.Equal(t, "bob", f.Username)
	assert.Equal(t, "bob@example.com", f.Email)
}

func TestSkillFormMissingFields(t *testing.T) {
	errs := fieldErrors(t, Validate(SkillForm{}))
	required := []string{"This field is required."}
	assert.Equal(t, Errors{
		"name":        required,
		"description": required,
		"category":    required,
		"difficulty":  required,
	}, errs)

	errs = fieldErrors(t, Validate(SkillForm{Name: "Go"}))
	assert.NotContains(t, errs, "name")
	assert.Len(t, errs, 3)
}

func TestSkillFormHasNoOwnerField(t *testing.T) {
	names := FieldNames(SkillForm{})
	assert.Equal(t, []string{"name", "description", "category", "difficulty"}, names)
	assert.NotContains(t, names, "owner")
}

func TestSkillFormMaxLength(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	errs := fieldErrors(t, Validate(SkillForm{
		Name: string(long), Description: "d", Category: "c", Difficulty: "easy",
	}))
	assert.Equal(t, []string{"Ensure this value has at most 100 characters."}, errs["name"])
}

func TestProfileBio(t *testing.T) {
	errs := fieldErrors(t, Validate(ProfileForm{Bio: strPtr("too short")}))
	assert.Equal(t, []string{bioText}, errs["bio"])

	assert.NoError(t, Validate(ProfileForm{Bio: strPtr("")}))
	assert.NoError(t, Validate(ProfileForm{}))
	assert.NoError(t, Validate(ProfileForm{Bio: strPtr("I like learning Go.")}))
}

func TestGoalFormDateWidget(t *testing.T) {
	spec, ok := FieldByName(GoalForm{}, "target_date")
	require.True(t, ok)
	assert.Equal(t, WidgetDate, spec.Widget)

	spec, ok = FieldByName(GoalForm{}, "skill")
	require.True(t, ok)
	assert.Equal(t, WidgetSelect, spec.Widget)

	_, ok = FieldByName(GoalEditForm{}, "skill")
	assert.False(t, ok, "skill cannot be changed after creation")
}

func TestGoalFormMissingFields(t *testing.T) {
	errs := fieldErrors(t, Validate(GoalForm{SkillID: uintPtr(1)}))
	required := []string{"This field is required."}
	assert.Equal(t, Errors{
		"name":        required,
		"description": required,
		"target_date": required,
		"progress":    required,
	}, errs)
}

func TestGoalFormValidation(t *testing.T) {
	form := GoalForm{
		SkillID:     uintPtr(1),
		Name:        "Finish tour",
		Description: "All chapters",
		TargetDate:  "2025-02-30",
		Progress:    intPtr(101),
	}
	errs := fieldErrors(t, Validate(form))
	assert.Equal(t, []string{"Enter a valid date."}, errs["target_date"])
	assert.Equal(t, []string{"Ensure this value is less than or equal to 100."}, errs["progress"])

	form.TargetDate = "2025-02-28"
	form.Progress = intPtr(0)
	require.NoError(t, Validate(form))
	assert.Equal(t, 28, form.Date().Day())
	assert.Equal(t, form.Name, form.Edit().Name)
}

func TestProgressFormAllowsNegativeDelta(t *testing.T) {
	assert.NoError(t, Validate(ProgressForm{Progress: intPtr(-20), UpdateText: "rollback"}))

	errs := fieldErrors(t, Validate(ProgressForm{Progress: intPtr(-101), UpdateText: "x"}))
	assert.Contains(t, errs, "progress")
}

func TestResourceFormLink(t *testing.T) {
	errs := fieldErrors(t, Validate(ResourceForm{SkillID: uintPtr(1), Title: "Tour", Link: "tour"}))
	assert.Equal(t, []string{"Enter a valid URL."}, errs["link"])
}

func TestSchemasCoverForms(t *testing.T) {
	schemas := Schemas()
	for _, name := range []string{"register", "login", "skill", "goal", "goal_edit", "progress", "resource", "profile", "admin_account"} {
		assert.Contains(t, schemas, name)
	}
}

func TestErrorsHelpers(t *testing.T) {
	assert.NoError(t, FromErrors(Errors{}))

	errs := Errors{}
	errs.Add("name", "a")
	errs.Merge(Errors{"name": {"b"}, NonFieldErrors: {"c"}})
	assert.Equal(t, []string{"a", "b"}, errs["name"])

	err := FromErrors(errs)
	assert.EqualError(t, err, "validation failed: __all__: c; name: a b")

	conflict := NewConflict("username", "taken")
	assert.True(t, conflict.Conflict)
	assert.False(t, NewNonFieldError("x").Conflict)
}
