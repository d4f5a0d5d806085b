package domain

// Scope identifica al usuario autenticado y la granja sobre la que opera.
type Scope struct {
	UserID     string
	FarmID     string
	SuperAdmin bool
}

// Allows indica si el usuario puede ver/modificar recursos de farmID.
// Un recurso de otra granja se trata como inexistente (ErrNotFound), nunca como prohibido.
func (s Scope) Allows(farmID string) bool {
	return s.SuperAdmin || (s.FarmID != "" && s.FarmID == farmID)
}
