package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// ErrPartnerNameEmpty indicates a missing partner organization name.
var ErrPartnerNameEmpty = apperrors.New(apperrors.CodePartnerNameEmpty, "organization name is required")

// Partner represents an organization that hosts or joins programs.
type Partner struct {
	ID               string
	OrganizationName string
	Website          string
	ContactEmail     string
	Languages        []string
	SDGFocus         []string
	Country          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreatePartnerInput describes the metadata needed to create a partner.
type CreatePartnerInput struct {
	OrganizationName string
	Website          string
	ContactEmail     string
	Languages        []string
	SDGFocus         []string
	Country          string
}

// CreatePartner creates a new partner with a generated ID and timestamps.
func CreatePartner(input CreatePartnerInput, now func() time.Time, idGenerator func() (string, error)) (Partner, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreatePartnerInput(input)
	if err != nil {
		return Partner{}, err
	}

	partnerID, err := idGenerator()
	if err != nil {
		return Partner{}, fmt.Errorf("generate partner id: %w", err)
	}

	createdAt := now().UTC()
	return Partner{
		ID:               partnerID,
		OrganizationName: normalized.OrganizationName,
		Website:          normalized.Website,
		ContactEmail:     normalized.ContactEmail,
		Languages:        normalized.Languages,
		SDGFocus:         normalized.SDGFocus,
		Country:          normalized.Country,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}, nil
}

// NormalizeCreatePartnerInput trims and validates partner input metadata.
func NormalizeCreatePartnerInput(input CreatePartnerInput) (CreatePartnerInput, error) {
	input.OrganizationName = strings.TrimSpace(input.OrganizationName)
	if input.OrganizationName == "" {
		return CreatePartnerInput{}, ErrPartnerNameEmpty
	}
	input.Website = strings.TrimSpace(input.Website)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	input.Country = strings.ToUpper(strings.TrimSpace(input.Country))
	return input, nil
}
