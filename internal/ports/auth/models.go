package auth

// Claims representa la identidad autenticada que entrega el proveedor.
type Claims struct {
	UserID      string
	Email       string
	DisplayName string
}
