package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egazette/internal/classify"
)

func TestSchemaFor(t *testing.T) {
	tests := []struct {
		category classify.Category
		kind     Kind
		ok       bool
	}{
		{classify.Personal, KindPersonal, true},
		{classify.Corporate, KindCorporate, true},
		{classify.Marriage, KindMarriage, true},
		{classify.Unknown, "", false},
	}

	for _, tc := range tests {
		schema, ok := SchemaFor(tc.category)
		assert.Equal(t, tc.ok, ok, string(tc.category))
		if tc.ok {
			assert.Equal(t, tc.kind, schema.Kind)
			assert.NotEmpty(t, schema.RequiredFields)
			assert.Greater(t, schema.MinDocuments, 0)
		}
	}
}

func TestByKind_CaseInsensitive(t *testing.T) {
	schema, ok := ByKind("Religious")
	require.True(t, ok)
	assert.Equal(t, KindReligious, schema.Kind)

	_, ok = ByKind("plumbing")
	assert.False(t, ok)
}

func TestSchemas_AllFour(t *testing.T) {
	all := Schemas()
	require.Len(t, all, 4)

	kinds := make(map[Kind]bool)
	for _, schema := range all {
		kinds[schema.Kind] = true
	}
	assert.True(t, kinds[KindPersonal])
	assert.True(t, kinds[KindCorporate])
	assert.True(t, kinds[KindMarriage])
	assert.True(t, kinds[KindReligious])
}

func TestPersonalForm_Validate(t *testing.T) {
	form := PersonalForm{
		FullName:     "Kwame Asante",
		DateOfBirth:  "1990-04-12",
		PlaceOfBirth: "Kumasi",
		CurrentName:  "Kwame Asante",
		NewName:      "Kwame Boateng Asante",
		Reason:       "Addition of family name",
		Email:        "kwame@example.com",
		Phone:        "+233201234567",
	}
	assert.Empty(t, form.Validate())

	form.Email = "not-an-email"
	form.NewName = "  "
	errs := form.Validate()
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "newName")
	assert.Len(t, errs, 2)
}

func TestCorporateForm_Validate_MissingEverything(t *testing.T) {
	errs := CorporateForm{}.Validate()
	for _, field := range schemas[KindCorporate].RequiredFields {
		assert.Contains(t, errs, field)
	}
}

func TestValidateByKind(t *testing.T) {
	values := url.Values{
		"spouseOneName":     {"Akosua Mensah"},
		"spouseTwoName":     {"Yaw Owusu"},
		"marriageDate":      {"2026-01-10"},
		"marriageVenue":     {"Holy Trinity Cathedral, Accra"},
		"registrarDistrict": {"Accra Metropolitan"},
		"email":             {"akosua@example.com"},
		"phone":             {"+233244000111"},
	}

	data, fieldErrs, err := ValidateByKind("marriage", values)
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	assert.Equal(t, "Yaw Owusu", data["spouseTwoName"])

	_, _, err = ValidateByKind("unknown", url.Values{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}
