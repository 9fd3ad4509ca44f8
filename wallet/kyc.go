package wallet

import (
	"context"
	"fmt"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/utils"
)

type VerificationMethod string

const (
	MethodBVN       VerificationMethod = "bvn"
	MethodNIN       VerificationMethod = "nin"
	MethodCAC       VerificationMethod = "cac"
	MethodCorporate VerificationMethod = "corporate"
)

// Verification is one identity-verification variant. Each variant
// carries only the fields its method needs; there is no shared grab-bag
// form object.
type Verification interface {
	Method() VerificationMethod
	params() api.IdentityParams
}

type BVNVerification struct {
	BVN         string `validate:"required,len=11,numeric"`
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	DateOfBirth string `validate:"required"`
}

func (v BVNVerification) Method() VerificationMethod { return MethodBVN }

func (v BVNVerification) params() api.IdentityParams {
	return api.IdentityParams{
		"bvn":       v.BVN,
		"firstName": v.FirstName,
		"lastName":  v.LastName,
		"dob":       v.DateOfBirth,
	}
}

type NINVerification struct {
	NIN       string `validate:"required,len=11,numeric"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

func (v NINVerification) Method() VerificationMethod { return MethodNIN }

func (v NINVerification) params() api.IdentityParams {
	return api.IdentityParams{
		"nin":       v.NIN,
		"firstName": v.FirstName,
		"lastName":  v.LastName,
	}
}

type CACVerification struct {
	RCNumber    string `validate:"required"`
	CompanyName string `validate:"required"`
}

func (v CACVerification) Method() VerificationMethod { return MethodCAC }

func (v CACVerification) params() api.IdentityParams {
	return api.IdentityParams{
		"rcNumber":    v.RCNumber,
		"companyName": v.CompanyName,
	}
}

type CorporateVerification struct {
	RCNumber    string `validate:"required"`
	CompanyName string `validate:"required"`
	DirectorBVN string `validate:"required,len=11,numeric"`
}

func (v CorporateVerification) Method() VerificationMethod { return MethodCorporate }

func (v CorporateVerification) params() api.IdentityParams {
	return api.IdentityParams{
		"rcNumber":    v.RCNumber,
		"companyName": v.CompanyName,
		"directorBvn": v.DirectorBVN,
	}
}

// Verify validates the variant's own fields and dispatches it to the
// endpoint matching its method.
func Verify(ctx context.Context, backend api.Backend, v Verification) (*api.KYCResult, error) {
	validate := utils.InitValidator()
	if err := validate.Struct(v); err != nil {
		fields := utils.FormatValidationErrors(err)
		return nil, utils.BadRequestErr(fmt.Sprintf("invalid %s verification: %v", v.Method(), fields))
	}

	switch v.Method() {
	case MethodBVN:
		return backend.VerifyBVN(ctx, v.params())
	case MethodNIN:
		return backend.VerifyNIN(ctx, v.params())
	case MethodCAC:
		return backend.VerifyCAC(ctx, v.params())
	case MethodCorporate:
		return backend.VerifyCorporate(ctx, v.params())
	default:
		return nil, fmt.Errorf("unknown verification method: %s", v.Method())
	}
}
