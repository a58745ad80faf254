package usecase

import "github.com/caom/ecommerce/internal/domain/model"

// IsOwner reports whether the principal owns the order.
func IsOwner(p model.Principal, order *model.Order) bool {
	return order != nil && p.UserID == order.UserID
}

// IsAdmin reports whether the principal has administrative capability.
func IsAdmin(p model.Principal) bool {
	return p.Role == model.RoleAdmin
}

// CanManageOrder allows the order owner or an administrator.
func CanManageOrder(p model.Principal, order *model.Order) bool {
	return IsAdmin(p) || IsOwner(p, order)
}
