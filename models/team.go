package models

// Team это запись в ростере. Identity это ID; имя может меняться,
// но используется как ключ при повторном импорте ростера.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
