package highlighter

import (
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// UpdateSettingsInput is a partial settings update. Nil fields keep their
// current value.
type UpdateSettingsInput struct {
	Enabled     *bool               `json:"enabled"`
	Orientation *domain.Orientation `json:"orientation"`
}

// Validate checks the fields that are present.
func (i UpdateSettingsInput) Validate() error {
	var errs []domain.FieldError

	if i.Enabled == nil && i.Orientation == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field is required"})
	}
	if i.Orientation != nil && !i.Orientation.IsValid() {
		errs = append(errs, domain.FieldError{Field: "orientation", Message: "must be one of vertical-right, horizontal-above, horizontal-below"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i UpdateSettingsInput) apply(c domain.DisplayConfig) domain.DisplayConfig {
	if i.Enabled != nil {
		c = c.WithEnabled(*i.Enabled)
	}
	if i.Orientation != nil {
		c = c.WithOrientation(*i.Orientation)
	}
	return c
}
