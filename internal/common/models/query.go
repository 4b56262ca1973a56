package models

// Page is the limit/offset pair accepted by list endpoints. Zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}
