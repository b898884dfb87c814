package enum

// UserRole represents the role of a back-office or register user
type UserRole string

const (
	RoleOwner      UserRole = "Owner"
	RoleManager    UserRole = "Manager"
	RoleCashier    UserRole = "Cashier"
	RoleWarehouse  UserRole = "Warehouse"
	RoleFieldSales UserRole = "FieldSales"
)

// Valid reports whether the value is a known role
func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleCashier, RoleWarehouse, RoleFieldSales:
		return true
	}
	return false
}

// CanOverrideCreditLimit reports whether the role may finalize a sale past a
// customer's credit limit.
func (r UserRole) CanOverrideCreditLimit() bool {
	return r == RoleOwner || r == RoleManager
}

// CanReversePayment reports whether the role may reverse a recorded payment.
func (r UserRole) CanReversePayment() bool {
	return r == RoleOwner || r == RoleManager
}

func (r UserRole) String() string {
	return string(r)
}
