package seed

import (
	"context"
	"fmt"

	"egazette/internal/store"
	"egazette/pkg/types"
)

// SeedServices writes the gazette service catalog. This file is the source
// of truth for the catalog: running the seeder replaces the stored list
// wholesale, so edits and removals here propagate on the next run.
func SeedServices(ctx context.Context, services *store.Services) error {
	catalog := []types.Service{
		{
			ID:             "change-of-name",
			Name:           "Change of Name",
			Description:    "Publication of a change of name in the national gazette",
			Price:          250,
			ProcessingTime: "2-3 weeks",
			Category:       "Personal",
			RequiredDocuments: []string{
				"Statutory declaration",
				"National ID or passport",
			},
			Icon: "user-pen",
		},
		{
			ID:             "change-of-date-of-birth",
			Name:           "Change of Date of Birth",
			Description:    "Correction of a recorded date of birth in the national gazette",
			Price:          220,
			ProcessingTime: "2-3 weeks",
			Category:       "Personal",
			RequiredDocuments: []string{
				"Statutory declaration",
				"Birth certificate",
			},
			Icon: "calendar",
		},
		{
			ID:             "change-name-company-school-hospital",
			Name:           "Change of Name (Company, School or Hospital)",
			Description:    "Publication of an institutional change of name",
			Price:          600,
			ProcessingTime: "3-4 weeks",
			Category:       "Corporate",
			RequiredDocuments: []string{
				"Board resolution",
				"Certificate of incorporation",
				"Regulatory approval letter",
			},
			Icon: "building",
		},
		{
			ID:             "incorporation-of-company",
			Name:           "Incorporation Notice",
			Description:    "Gazette notice of company incorporation",
			Price:          500,
			ProcessingTime: "3-4 weeks",
			Category:       "Corporate",
			RequiredDocuments: []string{
				"Certificate of incorporation",
				"Company regulations",
				"Directors' particulars",
			},
			Icon: "briefcase",
		},
		{
			ID:             "licensing-of-marriage-place",
			Name:           "Licensing of a Place of Marriage",
			Description:    "Gazette notice licensing premises for the celebration of marriages",
			Price:          400,
			ProcessingTime: "4-6 weeks",
			Category:       "Marriage",
			RequiredDocuments: []string{
				"Application letter",
				"Premises inspection report",
			},
			Icon: "church",
		},
		{
			ID:             "appointment-of-marriage-officer",
			Name:           "Appointment of Marriage Officer",
			Description:    "Gazette notice appointing a minister as a marriage officer",
			Price:          350,
			ProcessingTime: "4-6 weeks",
			Category:       "Marriage",
			RequiredDocuments: []string{
				"Letter of recommendation",
				"Certificate of ordination",
			},
			Icon: "stamp",
		},
		{
			ID:             "registration-of-religious-body",
			Name:           "Registration of Religious Body",
			Description:    "Gazette notice registering a church, mosque or other religious body",
			Price:          450,
			ProcessingTime: "4-6 weeks",
			Category:       "Religious",
			RequiredDocuments: []string{
				"Constitution of the body",
				"Trustees' particulars",
			},
			Icon: "hands-praying",
		},
	}

	if err := services.Save(ctx, catalog); err != nil {
		return fmt.Errorf("failed to seed service catalog: %w", err)
	}

	return nil
}
