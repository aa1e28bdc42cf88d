package checkout

import (
	"testing"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	pkgerrors "github.com/justbecho/justbecho-backend/pkg/errors"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

func strPtr(s string) *string { return &s }

func readyUser() *models.User {
	return &models.User{
		ProfileCompleted: true,
		Phone:            strPtr("+919876543210"),
		Address:          &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"},
	}
}

func TestCheckPreconditionsPassesForCompleteProfile(t *testing.T) {
	t.Parallel()

	if err := CheckPreconditions(readyUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckPreconditionsNilUser(t *testing.T) {
	t.Parallel()

	err := CheckPreconditions(nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCheckPreconditionsGateOrder(t *testing.T) {
	t.Parallel()

	// a user failing several gates must be told about the earliest one
	user := &models.User{ProfileCompleted: false, Phone: nil, Address: nil}
	assertAction(t, CheckPreconditions(user), ActionCompleteProfile)

	user.ProfileCompleted = true
	assertAction(t, CheckPreconditions(user), ActionAddAddress)

	user.Address = &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"}
	assertAction(t, CheckPreconditions(user), ActionAddPhone)

	user.Phone = strPtr("+919876543210")
	if err := CheckPreconditions(user); err != nil {
		t.Fatalf("expected all gates to pass, got %v", err)
	}
}

func TestCheckPreconditionsPartialAddress(t *testing.T) {
	t.Parallel()

	user := readyUser()
	user.Address.Pincode = " "

	err := CheckPreconditions(user)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	missing, ok := details["missing_fields"].([]string)
	if !ok || len(missing) != 1 || missing[0] != "pincode" {
		t.Fatalf("expected missing pincode, got %v", details["missing_fields"])
	}
}

func TestCheckPreconditionsBlankPhone(t *testing.T) {
	t.Parallel()

	user := readyUser()
	user.Phone = strPtr("   ")
	assertAction(t, CheckPreconditions(user), ActionAddPhone)
}

func assertAction(t *testing.T, err error, wantAction string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["action"] != wantAction {
		t.Fatalf("action = %v, want %s", details["action"], wantAction)
	}
}
