package models

// Tag — справочная категория рецепта. Данные неизменяемые,
// заполняются миграциями или выгрузкой.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Ingredient — справочный ингредиент с единицей измерения.
// Имя глобально уникально.
type Ingredient struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}
