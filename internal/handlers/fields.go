package handlers

// Case data paths read and written by the handlers.
const (
	fieldBenefitCode      = "appeal.benefitType.code"
	fieldAppellantSurname = "appeal.appellant.name.lastName"
	fieldAppellantAddress = "appeal.appellant.address"
	fieldPostcode         = "postcode"
	fieldCaseCategory     = "caseCategory"
)

// DefaultRequiredFields must be present on every case event.
var DefaultRequiredFields = []string{
	fieldBenefitCode,
	fieldAppellantSurname,
}
