package handlers

import (
	"context"
	"strings"

	"case-callback/internal/callback"
)

const CategoryOther = "other"

// DefaultCategories maps benefit codes to case categories.
var DefaultCategories = map[string]string{
	"PIP": "personalIndependencePayment",
	"ESA": "employmentSupportAllowance",
	"UC":  "universalCredit",
	"DLA": "disabilityLivingAllowance",
	"AA":  "attendanceAllowance",
}

// CategoryHandler sets caseCategory from the benefit code when it is not
// already set. The LATEST handlers only act on categorised cases.
type CategoryHandler struct {
	categories map[string]string
}

func NewCategoryHandler(categories map[string]string) *CategoryHandler {
	if categories == nil {
		categories = DefaultCategories
	}
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) CanHandle(phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) bool {
	return priority == callback.Earliest &&
		cb.CaseData.String(fieldCaseCategory) == "" &&
		stringAt(cb.CaseData, fieldBenefitCode) != ""
}

func (h *CategoryHandler) Handle(ctx context.Context, phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) error {
	code := strings.ToUpper(stringAt(cb.CaseData, fieldBenefitCode))
	category, ok := h.categories[code]
	if !ok {
		category = CategoryOther
	}
	cb.CaseData.Set(fieldCaseCategory, category)
	return nil
}
