package checkout

import (
	"strings"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	pkgerrors "github.com/justbecho/justbecho-backend/pkg/errors"
)

// Redirect actions returned with precondition failures so the client knows
// where to send the user. Session presence is enforced upstream by auth
// middleware, which covers the first gate.
const (
	ActionCompleteProfile = "complete_profile"
	ActionAddAddress      = "add_address"
	ActionAddPhone        = "add_phone"
)

// CheckPreconditions runs the ordered checkout gates against the user
// profile. Each gate fails fast before any gateway call is made.
func CheckPreconditions(user *models.User) error {
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	if !user.ProfileCompleted {
		return pkgerrors.New(pkgerrors.CodePrecondition, "profile is incomplete").
			WithDetails(map[string]any{"action": ActionCompleteProfile})
	}

	if missing := user.Address.MissingFields(); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodePrecondition, "shipping address is incomplete").
			WithDetails(map[string]any{
				"action":         ActionAddAddress,
				"missing_fields": missing,
			})
	}

	if user.Phone == nil || strings.TrimSpace(*user.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodePrecondition, "phone number is required").
			WithDetails(map[string]any{"action": ActionAddPhone})
	}

	return nil
}
