package authorize

// MatrixRow is one role's line in the role × permission matrix.
type MatrixRow struct {
	Role        Role         `json:"role"`
	DisplayName string       `json:"displayName"`
	Wildcard    bool         `json:"wildcard"`
	Permissions []Permission `json:"permissions"`
}

// Matrix lists every known role with the tokens it is granted, roles sorted.
func Matrix(auth IAuthorization) []MatrixRow {
	roles := SortedRoles()
	out := make([]MatrixRow, 0, len(roles))
	for _, r := range roles {
		out = append(out, MatrixRow{
			Role:        r,
			DisplayName: RoleDisplayNamesFR[r],
			Wildcard:    auth.IsWildcard(r),
			Permissions: auth.Permissions(r),
		})
	}
	return out
}
