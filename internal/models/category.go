package models

type CategoryMapping struct {
	Name          string
	Subcategories []string
}

// Catalogue fixe catégorie → sous-catégories
var Categories = []CategoryMapping{
	{Name: "Door Hardware", Subcategories: []string{"Door Handles", "Designer Material", "Back Rubbers", "Door Stoppers", "Door Magnets", "Aldrops-SS", "Aldrops-Antique", "Tower Bolts", "Hinges-SS"}},
	{Name: "Door Locks", Subcategories: []string{"Lock Cylinder", "Mortise Handles", "Dead Locks", "Digital Locks", "Rim Locks"}},
	{Name: "Window Hardware", Subcategories: []string{"Window Handles", "Window Stays", "Window Hinges"}},
	{Name: "Cabinet Hardware", Subcategories: []string{"Hinges", "Handles", "Locks", "Channels"}},
	{Name: "Glass Profiles", Subcategories: []string{"U Channels", "F Profiles", "H Profiles", "L Angles"}},
	{Name: "Almirah Hardware", Subcategories: []string{"Handles", "Hinges", "Locks", "Accessories"}},
	{Name: "Sofa Hardware", Subcategories: []string{"Mechanisms", "Springs", "Legs", "Accessories"}},
	{Name: "Table Hardware", Subcategories: []string{"Legs", "Casters", "Brackets", "Mechanisms"}},
}

// SubcategoriesOf retourne les sous-catégories connues d'une catégorie
func SubcategoriesOf(category string) []string {
	for _, c := range Categories {
		if c.Name == category {
			return c.Subcategories
		}
	}
	return nil
}

type SubcategoryCount struct {
	Name         string   `json:"name"`
	Count        int      `json:"count"`
	SampleImages []string `json:"sampleImages"`
}

type CategorySummary struct {
	Name          string             `json:"name"`
	Subcategories []SubcategoryCount `json:"subcategories"`
	Count         int                `json:"count"`
	FeaturedImage *string            `json:"featuredImage"`
}

type SubcategoryAvailability struct {
	Name        string `json:"name"`
	HasProducts bool   `json:"hasProducts"`
}
