// Package forms holds the gazette application form schemas and their
// validation rules. Each classifier category routes to exactly one schema;
// the religious schema is only reachable through manual selection.
package forms

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/go-playground/form/v4"

	"egazette/internal/classify"
)

var decoder = form.NewDecoder()

// Decode populates a form struct from submitted values.
func Decode(dst any, values url.Values) error {
	return decoder.Decode(dst, values)
}

type Kind string

const (
	KindPersonal  Kind = "personal"
	KindCorporate Kind = "corporate"
	KindMarriage  Kind = "marriage"
	KindReligious Kind = "religious"
)

// Schema describes one application form to the client: what it is called,
// which fields must be present and how many supporting documents the
// submission needs before it can leave draft.
type Schema struct {
	Kind           Kind     `json:"kind"`
	Title          string   `json:"title"`
	RequiredFields []string `json:"requiredFields"`
	MinDocuments   int      `json:"minDocuments"`
}

var schemas = map[Kind]Schema{
	KindPersonal: {
		Kind:  KindPersonal,
		Title: "Personal Gazette Application",
		RequiredFields: []string{
			"fullName", "dateOfBirth", "placeOfBirth",
			"currentName", "newName", "reason", "email", "phone",
		},
		MinDocuments: 2,
	},
	KindCorporate: {
		Kind:  KindCorporate,
		Title: "Corporate Gazette Application",
		RequiredFields: []string{
			"companyName", "registrationNumber", "businessAddress",
			"contactPerson", "email", "phone", "purpose",
		},
		MinDocuments: 3,
	},
	KindMarriage: {
		Kind:  KindMarriage,
		Title: "Marriage Gazette Application",
		RequiredFields: []string{
			"spouseOneName", "spouseTwoName", "marriageDate",
			"marriageVenue", "registrarDistrict", "email", "phone",
		},
		MinDocuments: 2,
	},
	KindReligious: {
		Kind:  KindReligious,
		Title: "Religious Body Gazette Application",
		RequiredFields: []string{
			"organizationName", "denomination", "headOfficeAddress",
			"leaderName", "email", "phone",
		},
		MinDocuments: 2,
	},
}

// SchemaFor maps a classifier category to its form schema. Unknown has no
// schema; the caller falls back to manual selection.
func SchemaFor(category classify.Category) (Schema, bool) {
	switch category {
	case classify.Personal:
		return schemas[KindPersonal], true
	case classify.Corporate:
		return schemas[KindCorporate], true
	case classify.Marriage:
		return schemas[KindMarriage], true
	}
	return Schema{}, false
}

// ByKind resolves a schema from its wire name, accepting any case.
func ByKind(kind string) (Schema, bool) {
	schema, ok := schemas[Kind(strings.ToLower(kind))]
	return schema, ok
}

func Schemas() []Schema {
	return []Schema{
		schemas[KindPersonal],
		schemas[KindCorporate],
		schemas[KindMarriage],
		schemas[KindReligious],
	}
}

func required(errs map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "this field is required"
	}
}

func validEmail(errs map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "this field is required"
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		errs[field] = "please provide a valid email address"
	}
}

type PersonalForm struct {
	FullName     string `form:"fullName" json:"fullName"`
	DateOfBirth  string `form:"dateOfBirth" json:"dateOfBirth"`
	PlaceOfBirth string `form:"placeOfBirth" json:"placeOfBirth"`
	CurrentName  string `form:"currentName" json:"currentName"`
	NewName      string `form:"newName" json:"newName"`
	Reason       string `form:"reason" json:"reason"`
	Email        string `form:"email" json:"email"`
	Phone        string `form:"phone" json:"phone"`
	Address      string `form:"address" json:"address,omitempty"`
}

func (f PersonalForm) Validate() map[string]string {
	errs := make(map[string]string)
	required(errs, "fullName", f.FullName)
	required(errs, "dateOfBirth", f.DateOfBirth)
	required(errs, "placeOfBirth", f.PlaceOfBirth)
	required(errs, "currentName", f.CurrentName)
	required(errs, "newName", f.NewName)
	required(errs, "reason", f.Reason)
	validEmail(errs, "email", f.Email)
	required(errs, "phone", f.Phone)
	return errs
}

type CorporateForm struct {
	CompanyName        string `form:"companyName" json:"companyName"`
	RegistrationNumber string `form:"registrationNumber" json:"registrationNumber"`
	BusinessAddress    string `form:"businessAddress" json:"businessAddress"`
	ContactPerson      string `form:"contactPerson" json:"contactPerson"`
	Email              string `form:"email" json:"email"`
	Phone              string `form:"phone" json:"phone"`
	Purpose            string `form:"purpose" json:"purpose"`
}

func (f CorporateForm) Validate() map[string]string {
	errs := make(map[string]string)
	required(errs, "companyName", f.CompanyName)
	required(errs, "registrationNumber", f.RegistrationNumber)
	required(errs, "businessAddress", f.BusinessAddress)
	required(errs, "contactPerson", f.ContactPerson)
	validEmail(errs, "email", f.Email)
	required(errs, "phone", f.Phone)
	required(errs, "purpose", f.Purpose)
	return errs
}

type MarriageForm struct {
	SpouseOneName     string `form:"spouseOneName" json:"spouseOneName"`
	SpouseTwoName     string `form:"spouseTwoName" json:"spouseTwoName"`
	MarriageDate      string `form:"marriageDate" json:"marriageDate"`
	MarriageVenue     string `form:"marriageVenue" json:"marriageVenue"`
	RegistrarDistrict string `form:"registrarDistrict" json:"registrarDistrict"`
	Email             string `form:"email" json:"email"`
	Phone             string `form:"phone" json:"phone"`
}

func (f MarriageForm) Validate() map[string]string {
	errs := make(map[string]string)
	required(errs, "spouseOneName", f.SpouseOneName)
	required(errs, "spouseTwoName", f.SpouseTwoName)
	required(errs, "marriageDate", f.MarriageDate)
	required(errs, "marriageVenue", f.MarriageVenue)
	required(errs, "registrarDistrict", f.RegistrarDistrict)
	validEmail(errs, "email", f.Email)
	required(errs, "phone", f.Phone)
	return errs
}

type ReligiousForm struct {
	OrganizationName  string `form:"organizationName" json:"organizationName"`
	Denomination      string `form:"denomination" json:"denomination"`
	HeadOfficeAddress string `form:"headOfficeAddress" json:"headOfficeAddress"`
	LeaderName        string `form:"leaderName" json:"leaderName"`
	Email             string `form:"email" json:"email"`
	Phone             string `form:"phone" json:"phone"`
}

func (f ReligiousForm) Validate() map[string]string {
	errs := make(map[string]string)
	required(errs, "organizationName", f.OrganizationName)
	required(errs, "denomination", f.Denomination)
	required(errs, "headOfficeAddress", f.HeadOfficeAddress)
	required(errs, "leaderName", f.LeaderName)
	validEmail(errs, "email", f.Email)
	required(errs, "phone", f.Phone)
	return errs
}

// ValidateByKind checks submitted values against the named schema and
// returns the decoded payload on success.
func ValidateByKind(kind string, values url.Values) (map[string]any, map[string]string, error) {
	schema, ok := ByKind(kind)
	if !ok {
		return nil, nil, ErrUnknownKind
	}

	switch schema.Kind {
	case KindPersonal:
		var f PersonalForm
		if err := Decode(&f, values); err != nil {
			return nil, nil, err
		}
		return toData(f), f.Validate(), nil
	case KindCorporate:
		var f CorporateForm
		if err := Decode(&f, values); err != nil {
			return nil, nil, err
		}
		return toData(f), f.Validate(), nil
	case KindMarriage:
		var f MarriageForm
		if err := Decode(&f, values); err != nil {
			return nil, nil, err
		}
		return toData(f), f.Validate(), nil
	default:
		var f ReligiousForm
		if err := Decode(&f, values); err != nil {
			return nil, nil, err
		}
		return toData(f), f.Validate(), nil
	}
}
