package service

import "github.com/vrksatech/market/internal/domain"

// Shared validation errors returned by checkout and cart operations.
var (
	ErrCartEmpty = &domain.Error{
		Code:    domain.EINVALID,
		Message: "Cart is empty",
	}

	ErrAddressRequired = &domain.Error{
		Code:    domain.EINVALID,
		Message: "Delivery address is required",
	}

	ErrUnknownPaymentMethod = &domain.Error{
		Code:    domain.EINVALID,
		Message: "Unknown payment method",
	}
)
